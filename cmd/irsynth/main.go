// Command irsynth writes capture files containing synthesized remote control
// frames, for replaying through irdecode or testing sampler firmware.
package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/neildavis/drivers/internal/capture"
	"github.com/neildavis/drivers/internal/config"
	"github.com/neildavis/drivers/internal/logging"
	"github.com/neildavis/drivers/irremote"
	"github.com/neildavis/drivers/irremote/irprotocol"
	"github.com/neildavis/drivers/irremote/remotes"
)

type options struct {
	output    string
	config    string
	protocol  string
	address   uint16
	command   uint8
	profile   string
	button    string
	toggle    bool
	repeats   int
	rate      uint32
	gap       time.Duration
	lead      time.Duration
	activeLow bool
	logLevel  string
}

func parseOptions(args []string) (*options, error) {
	o := &options{}
	fs := pflag.NewFlagSet("irsynth", pflag.ContinueOnError)
	fs.StringVarP(&o.output, "output", "o", "", "capture file to write (.zst files are compressed)")
	fs.StringVarP(&o.config, "config", "c", "", "YAML configuration file providing extra profiles")
	fs.StringVarP(&o.protocol, "protocol", "p", "", "protocol of a raw command")
	fs.Uint16VarP(&o.address, "address", "a", 0, "address of a raw command")
	fs.Uint8Var(&o.command, "command", 0, "code of a raw command")
	fs.StringVar(&o.profile, "profile", "", "remote control profile to take the button from")
	fs.StringVarP(&o.button, "button", "b", "", "button to press, requires --profile")
	fs.BoolVarP(&o.toggle, "toggle", "t", false, "set the toggle bit (rc5, rc6)")
	fs.IntVar(&o.repeats, "repeats", 0, "frames sent after the first while the key is held")
	fs.Uint32VarP(&o.rate, "rate", "r", config.DefaultSampleRate, "sample rate in Hz")
	fs.DurationVar(&o.gap, "gap", 40*time.Millisecond, "idle time after each frame")
	fs.DurationVar(&o.lead, "lead", 20*time.Millisecond, "idle time before the first frame")
	fs.BoolVar(&o.activeLow, "active-low", true, "record the output of an active-low receiver")
	fs.StringVarP(&o.logLevel, "log-level", "l", config.DefaultLogLevel, "log level")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if o.output == "" {
		return nil, errors.New("--output is required")
	}
	if o.repeats < 0 {
		return nil, errors.New("--repeats must not be negative")
	}
	if o.rate == 0 {
		return nil, errors.New("--rate must be positive")
	}
	return o, nil
}

// resolve returns the command to send, either given raw or looked up as a
// profile button
func (o *options) resolve() (irprotocol.Command, error) {
	if o.button == "" {
		id, err := irprotocol.ParseProtocol(o.protocol)
		if err != nil {
			return irprotocol.Command{}, err
		}
		return irprotocol.Command{Protocol: id, Address: o.address, Command: o.command, Toggle: o.toggle}, nil
	}

	if o.profile == "" {
		return irprotocol.Command{}, errors.New("--button requires --profile")
	}
	cfg := config.Default()
	if o.config != "" {
		var err error
		if cfg, err = config.Load(o.config); err != nil {
			return irprotocol.Command{}, err
		}
		if err := config.Validate(cfg); err != nil {
			return irprotocol.Command{}, err
		}
	}
	registry, err := cfg.Registry()
	if err != nil {
		return irprotocol.Command{}, err
	}
	p, ok := registry.Profile(o.profile)
	if !ok {
		return irprotocol.Command{}, fmt.Errorf("unknown profile %q", o.profile)
	}
	b, err := remotes.ParseButton(o.button)
	if err != nil {
		return irprotocol.Command{}, err
	}
	cmd, ok := p.Command(b)
	if !ok {
		return irprotocol.Command{}, fmt.Errorf("profile %q has no %s button", p.Name(), b)
	}
	cmd.Toggle = o.toggle
	return cmd, nil
}

// frames returns the first frame followed by the held-key repeats. NEC
// sends repeat codes, the other protocols resend the frame.
func frames(cmd irprotocol.Command, repeats int, gap time.Duration) []irremote.Frame {
	out := []irremote.Frame{{Command: cmd, Gap: gap}}
	if cmd.Protocol == irprotocol.NEC {
		cmd.Repeat = true
	}
	for i := 0; i < repeats; i++ {
		out = append(out, irremote.Frame{Command: cmd, Gap: gap})
	}
	return out
}

func write(o *options, log zerolog.Logger) error {
	cmd, err := o.resolve()
	if err != nil {
		return err
	}
	marks, err := irremote.Synthesize(frames(cmd, o.repeats, o.gap), o.rate, o.lead)
	if err != nil {
		return err
	}

	f, err := capture.Create(o.output)
	if err != nil {
		return err
	}
	w := capture.NewWriter(f)
	for _, m := range marks {
		if err := w.Write(m != o.activeLow); err != nil {
			w.Close()
			return err
		}
	}
	if err := w.Close(); err != nil {
		return err
	}
	log.Info().
		Str("output", o.output).
		Stringer("command", cmd).
		Int("frames", o.repeats+1).
		Uint64("samples", w.Samples()).
		Msg("capture written")
	return nil
}

func main() {
	o, err := parseOptions(os.Args[1:])
	if errors.Is(err, pflag.ErrHelp) {
		return
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "irsynth:", err)
		os.Exit(2)
	}
	log, err := logging.Init("irsynth", o.logLevel, false)
	if err != nil {
		fmt.Fprintln(os.Stderr, "irsynth:", err)
		os.Exit(2)
	}
	if err := write(o, log); err != nil {
		log.Error().Err(err).Msg("irsynth failed")
		os.Exit(1)
	}
}

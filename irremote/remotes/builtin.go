package remotes

import "github.com/neildavis/drivers/irremote/irprotocol"

// PhilipsTV is a Philips television remote using RC6 mode 0
var PhilipsTV = MustProfile("philips-tv",
	ProfileConfig{Protocol: irprotocol.RC6, Address: 0, Device: TV},
	[]Mapping{
		{0, Zero},
		{1, One},
		{2, Two},
		{3, Three},
		{4, Four},
		{5, Five},
		{6, Six},
		{7, Seven},
		{8, Eight},
		{9, Nine},
		{12, Power},
		{13, Mute},
		{32, ChannelUp},
		{33, ChannelDown},
		{60, Teletext},
		{76, VolumeUp},
		{77, VolumeDown},
		{84, Menu},
		{88, Up},
		{89, Down},
		{90, Left},
		{91, Right},
		{92, Ok},
	})

// PhilipsTVRC5 is an older Philips television remote using RC5
var PhilipsTVRC5 = MustProfile("philips-tv-rc5",
	ProfileConfig{Protocol: irprotocol.RC5, Address: 0, Device: TV},
	[]Mapping{
		{0, Zero},
		{1, One},
		{2, Two},
		{3, Three},
		{4, Four},
		{5, Five},
		{6, Six},
		{7, Seven},
		{8, Eight},
		{9, Nine},
		{12, Power},
		{13, Mute},
		{16, VolumeUp},
		{17, VolumeDown},
		{32, ChannelUp},
		{33, ChannelDown},
		{60, Teletext},
	})

// SamsungTV is a Samsung television remote
var SamsungTV = MustProfile("samsung-tv",
	ProfileConfig{Protocol: irprotocol.Samsung, Address: 0x07, Device: TV},
	[]Mapping{
		{1, Source},
		{2, Power},
		{4, One},
		{5, Two},
		{6, Three},
		{7, VolumeUp},
		{8, Four},
		{9, Five},
		{10, Six},
		{11, VolumeDown},
		{12, Seven},
		{13, Eight},
		{14, Nine},
		{15, Mute},
		{16, ChannelDown},
		{17, Zero},
		{18, ChannelUp},
		{20, Green},
		{21, Yellow},
		{22, Blue},
		{26, Menu},
		{31, Info},
		{45, Exit},
		{79, Guide},
		{88, Back},
		{96, Up},
		{97, Down},
		{98, Right},
		{101, Left},
		{104, Ok},
		{107, ChannelList},
		{108, Red},
	})

// SonyTV is a Sony television remote using 12-bit SIRC
var SonyTV = MustProfile("sony-tv",
	ProfileConfig{Protocol: irprotocol.SIRC, Address: 1, Device: TV},
	[]Mapping{
		{0, One},
		{1, Two},
		{2, Three},
		{3, Four},
		{4, Five},
		{5, Six},
		{6, Seven},
		{7, Eight},
		{8, Nine},
		{9, Zero},
		{16, ChannelUp},
		{17, ChannelDown},
		{18, VolumeUp},
		{19, VolumeDown},
		{20, Mute},
		{21, Power},
		{37, Source},
		{51, Right},
		{52, Left},
		{96, Menu},
		{101, Ok},
		{116, Up},
		{117, Down},
	})

// CarMP3 is the common 21-key NEC remote sold with hobby kits
var CarMP3 = MustProfile("car-mp3",
	ProfileConfig{Protocol: irprotocol.NEC, Address: 0x00, Device: Audio},
	[]Mapping{
		{0x07, VolumeDown},
		{0x08, Four},
		{0x09, Eq},
		{0x0C, One},
		{0x0D, Plus200},
		{0x15, VolumeUp},
		{0x16, Zero},
		{0x18, Two},
		{0x19, Plus100},
		{0x1C, Five},
		{0x40, Next},
		{0x42, Seven},
		{0x43, PlayPause},
		{0x44, Prev},
		{0x45, ChannelDown},
		{0x46, ChannelList},
		{0x47, ChannelUp},
		{0x4A, Nine},
		{0x52, Eight},
		{0x5A, Six},
		{0x5E, Three},
	})

// Builtin returns the profiles defined by this package
func Builtin() []*Profile {
	return []*Profile{PhilipsTV, PhilipsTVRC5, SamsungTV, SonyTV, CarMP3}
}

package tray

// iconData is the 16x16 template PNG shown in the menu bar.
var iconData = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x04, 0x00, 0x00, 0x00, 0xb5, 0xfa, 0x37, 0xea, 0x00, 0x00, 0x00,
	0x45, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x60, 0xa0, 0x26, 0x28,
	0x61, 0x38, 0xcd, 0xf0, 0x13, 0x08, 0x4f, 0x03, 0x59, 0x18, 0x40, 0x09,
	0x28, 0xfc, 0x1f, 0x09, 0x9e, 0x06, 0x8a, 0xa0, 0x00, 0x54, 0x69, 0x88,
	0x12, 0x14, 0xc3, 0xff, 0x63, 0x81, 0x25, 0xf8, 0xf4, 0xa3, 0x99, 0xf1,
	0x13, 0xab, 0x82, 0x9f, 0x24, 0x28, 0x20, 0x68, 0x05, 0x41, 0x47, 0x12,
	0xf4, 0x26, 0x11, 0x01, 0x45, 0x30, 0xa8, 0xc9, 0x07, 0x00, 0x9a, 0xe9,
	0x70, 0x49, 0xc0, 0x93, 0xae, 0x65, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45,
	0x4e, 0x44, 0xae, 0x42, 0x60, 0x82,
}

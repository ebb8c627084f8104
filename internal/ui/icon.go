package ui

// iconBytes is a 16x16 PNG used as the tray icon.
var iconBytes = []byte{
	0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a, 0x00, 0x00, 0x00, 0x0d,
	0x49, 0x48, 0x44, 0x52, 0x00, 0x00, 0x00, 0x10, 0x00, 0x00, 0x00, 0x10,
	0x08, 0x06, 0x00, 0x00, 0x00, 0x1f, 0xf3, 0xff, 0x61, 0x00, 0x00, 0x00,
	0x20, 0x49, 0x44, 0x41, 0x54, 0x78, 0xda, 0x63, 0x90, 0xd3, 0xb4, 0xfe,
	0x4f, 0x09, 0x66, 0x18, 0x86, 0x06, 0x7c, 0x9d, 0xc7, 0x8d, 0x17, 0x8f,
	0x1a, 0x30, 0x32, 0x0c, 0x18, 0x81, 0x79, 0x01, 0x00, 0x85, 0x03, 0xc8,
	0x10, 0xe6, 0x2b, 0x99, 0xff, 0x00, 0x00, 0x00, 0x00, 0x49, 0x45, 0x4e,
	0x44, 0xae, 0x42, 0x60, 0x82,
}

package texcodec

// Format flag bits. These describe a pixel format's static shape: which
// channels it carries and how its pixel block splits between
// them. They are distinct from the per-chunk compression_flags read from
// the wire, which select which synthesis pass runs.
const (
	formatAlpha uint16 = 1 << iota
	formatColor
	formatPlain // explicit, non-interpolated alpha/color component
	formatBicolor
	formatBPTC
	formatDeducedAlphaComp
)

// Format is the fixed, 4CC-selected description of a pixel format.
type Format struct {
	FlagData      uint16
	PixelSizeBits uint16
}

// FullFormat extends Format with the dimensions of one particular decode.
type FullFormat struct {
	Format
	PixelBlocks      int
	BytesPixelBlocks int
	BytesComponent   int
	TwoComponent     bool
	Width            uint16
	Height           uint16
}

// The 11 supported 4CCs, packed little-endian the same way the ASCII tag
// is laid out in memory (matching the DXT1 and BC7 values given in the
// format's defining reference).
const (
	fourCCDXT1 uint32 = 0x31545844 // "DXT1"
	fourCCDXT2 uint32 = 0x32545844 // "DXT2"
	fourCCDXT3 uint32 = 0x33545844 // "DXT3"
	fourCCDXT4 uint32 = 0x34545844 // "DXT4"
	fourCCDXT5 uint32 = 0x35545844 // "DXT5"
	fourCCDXTA uint32 = 0x41545844 // "DXTA" (ATI1/BC4)
	fourCCDXTL uint32 = 0x4C545844 // "DXTL" (luminance bicolor)
	fourCCDXTN uint32 = 0x4E545844 // "DXTN" (ATI2/BC5)
	fourCC3DCX uint32 = 0x58434433 // "3DCX" (3Dc, alias of ATI2)
	fourCCBC6H uint32 = 0x48364342 // "BC6H"
	fourCCBC7  uint32 = 0x58374342 // "BC7X", matches the reference value
)

var formatTable = map[uint32]Format{
	fourCCDXT1: {FlagData: formatColor, PixelSizeBits: 64},
	fourCCDXT2: {FlagData: formatColor | formatAlpha | formatPlain, PixelSizeBits: 128},
	fourCCDXT3: {FlagData: formatColor | formatAlpha | formatPlain, PixelSizeBits: 128},
	fourCCDXT4: {FlagData: formatColor | formatAlpha | formatDeducedAlphaComp, PixelSizeBits: 128},
	fourCCDXT5: {FlagData: formatColor | formatAlpha | formatDeducedAlphaComp, PixelSizeBits: 128},
	fourCCDXTA: {FlagData: formatAlpha, PixelSizeBits: 64},
	fourCCDXTL: {FlagData: formatBicolor, PixelSizeBits: 128},
	fourCCDXTN: {FlagData: formatBicolor, PixelSizeBits: 128},
	fourCC3DCX: {FlagData: formatBicolor, PixelSizeBits: 128},
	fourCCBC6H: {FlagData: formatColor | formatBPTC, PixelSizeBits: 128},
	fourCCBC7:  {FlagData: formatColor | formatBPTC, PixelSizeBits: 128},
}

func ceilDiv4(n uint16) int {
	return (int(n) + 3) / 4
}

func deduceFormat(fourCC uint32, width, height uint16) (FullFormat, error) {
	f, ok := formatTable[fourCC]
	if !ok {
		return FullFormat{}, ErrUnsupportedFormat
	}

	pixelBlocks := ceilDiv4(width) * ceilDiv4(height)
	bytesPixelBlocks := int(f.PixelSizeBits) / 8

	// BPTC formats (BC6H/BC7) are deliberately excluded here even though
	// they carry formatBPTC: their synthesis passes write from the start
	// of the block, not into a half-block component (the unorm pass fills
	// all 16 bytes with 0xFF; the float pass writes one 4-byte float).
	twoComponent := f.FlagData&(formatPlain|formatColor|formatAlpha) == (formatPlain|formatColor|formatAlpha) ||
		f.FlagData&formatBicolor != 0

	bytesComponent := bytesPixelBlocks
	if twoComponent {
		bytesComponent /= 2
	}

	return FullFormat{
		Format:           f,
		PixelBlocks:      pixelBlocks,
		BytesPixelBlocks: bytesPixelBlocks,
		BytesComponent:   bytesComponent,
		TwoComponent:     twoComponent,
		Width:            width,
		Height:           height,
	}, nil
}

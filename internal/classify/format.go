package classify

import "fmt"

// DataFormat is the interval-file dialect a table conforms to.
type DataFormat int

const (
	// UnknownFormat is reported when the input could not be parsed at all.
	UnknownFormat DataFormat = iota
	UCSCBed
	UCSCBedRelaxed
	BedLike
	BedLikeRelaxed
	EncodeNarrowPeak
	EncodeNarrowPeakRelaxed
	EncodeBroadPeak
	EncodeBroadPeakRelaxed
	EncodeGappedPeak
	EncodeGappedPeakRelaxed
	EncodeRNAElements
	EncodeRNAElementsRelaxed
)

var formatNames = map[DataFormat]string{
	UnknownFormat:            "unknown_data_format",
	UCSCBed:                  "ucsc_bed",
	UCSCBedRelaxed:           "ucsc_bed_relaxed",
	BedLike:                  "bed_like",
	BedLikeRelaxed:           "bed_like_relaxed",
	EncodeNarrowPeak:         "encode_narrowpeak",
	EncodeNarrowPeakRelaxed:  "encode_narrowpeak_relaxed",
	EncodeBroadPeak:          "encode_broadpeak",
	EncodeBroadPeakRelaxed:   "encode_broadpeak_relaxed",
	EncodeGappedPeak:         "encode_gappedpeak",
	EncodeGappedPeakRelaxed:  "encode_gappedpeak_relaxed",
	EncodeRNAElements:        "encode_rna_elements",
	EncodeRNAElementsRelaxed: "encode_rna_elements_relaxed",
}

// relaxedOf maps each strict format to its relaxed counterpart.
var relaxedOf = map[DataFormat]DataFormat{
	UCSCBed:           UCSCBedRelaxed,
	BedLike:           BedLikeRelaxed,
	EncodeNarrowPeak:  EncodeNarrowPeakRelaxed,
	EncodeBroadPeak:   EncodeBroadPeakRelaxed,
	EncodeGappedPeak:  EncodeGappedPeakRelaxed,
	EncodeRNAElements: EncodeRNAElementsRelaxed,
}

// Formats lists every DataFormat in declaration order.
func Formats() []DataFormat {
	out := make([]DataFormat, 0, len(formatNames))
	for f := UnknownFormat; f <= EncodeRNAElementsRelaxed; f++ {
		out = append(out, f)
	}
	return out
}

func (f DataFormat) String() string {
	if name, ok := formatNames[f]; ok {
		return name
	}
	return fmt.Sprintf("DataFormat(%d)", int(f))
}

// Relaxed returns the relaxed variant of f. Formats without a relaxed
// variant, and formats that are already relaxed, are returned unchanged.
func (f DataFormat) Relaxed() DataFormat {
	if r, ok := relaxedOf[f]; ok {
		return r
	}
	return f
}

// IsRelaxed reports whether f is a relaxed variant.
func (f DataFormat) IsRelaxed() bool {
	return f.Base() != f
}

// Base returns the strict variant of f.
func (f DataFormat) Base() DataFormat {
	for strict, relaxed := range relaxedOf {
		if relaxed == f {
			return strict
		}
	}
	return f
}

// MarshalText implements encoding.TextMarshaler.
func (f DataFormat) MarshalText() ([]byte, error) {
	name, ok := formatNames[f]
	if !ok {
		return nil, fmt.Errorf("unknown data format %d", int(f))
	}
	return []byte(name), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (f *DataFormat) UnmarshalText(text []byte) error {
	parsed, err := ParseDataFormat(string(text))
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// ParseDataFormat returns the DataFormat with the given name.
func ParseDataFormat(name string) (DataFormat, error) {
	for f, n := range formatNames {
		if n == name {
			return f, nil
		}
	}
	return UnknownFormat, fmt.Errorf("unknown data format %q", name)
}

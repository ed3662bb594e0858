package header

import (
	"encoding/binary"
	"fmt"
)

// Sizes of the fixed SEG-Y Rev 1 records in bytes.
const (
	TextHeaderSize   = 3200
	BinaryHeaderSize = 400
	FileHeaderSize   = TextHeaderSize + BinaryHeaderSize
	TraceHeaderSize  = 240
	// ExtTextHeaderSize is the size of one extended textual file header record.
	ExtTextHeaderSize = 3200
)

// Kind is the on-disk numeric type of a header field.
type Kind uint8

const (
	// Int16 is a signed two-byte integer.
	Int16 Kind = iota + 1
	// Uint16 is an unsigned two-byte integer (sample counts and intervals).
	Uint16
	// Int32 is a signed four-byte integer.
	Int32
)

// Size returns the field width in bytes.
func (k Kind) Size() int {
	if k == Int32 {
		return 4
	}
	return 2
}

func (k Kind) String() string {
	switch k {
	case Int16:
		return "int16"
	case Uint16:
		return "uint16"
	case Int32:
		return "int32"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// FieldInfo describes the byte layout of a single header field.
// Offsets are relative to the start of the record the field belongs to.
type FieldInfo struct {
	Name   string
	Offset int
	Kind   Kind
}

func (fi FieldInfo) decode(buf []byte, order binary.ByteOrder) int32 {
	switch fi.Kind {
	case Int32:
		return int32(order.Uint32(buf[fi.Offset:]))
	case Uint16:
		return int32(order.Uint16(buf[fi.Offset:]))
	default:
		return int32(int16(order.Uint16(buf[fi.Offset:])))
	}
}

func (fi FieldInfo) encode(buf []byte, order binary.ByteOrder, v int32) {
	if fi.Kind == Int32 {
		order.PutUint32(buf[fi.Offset:], uint32(v))
		return
	}
	order.PutUint16(buf[fi.Offset:], uint16(v))
}

// TraceField identifies a field of the 240-byte trace header.
// The zero value is TraceNumWithinLine.
type TraceField uint8

// Trace header fields in on-disk order.
const (
	TraceNumWithinLine TraceField = iota
	TraceNumWithinFile
	FieldRecord
	TraceNumber
	EnergySourcePoint
	CDP
	CDPTrace
	TraceIDCode
	NSummedTraces
	NStackedTraces
	DataUse
	Offset
	RecGroupElevation
	SourceSurfaceElevation
	SourceDepth
	RecDatumElevation
	SourceDatumElevation
	SourceWaterDepth
	GroupWaterDepth
	ElevationScalar
	RecSourceScalar
	SourceX
	SourceY
	GroupX
	GroupY
	CoordUnits
	WeatheringVelocity
	SubWeatheringVelocity
	UpholeTimeSource
	UpholeTimeGroup
	StaticCorrectionSource
	StaticCorrectionGroup
	TotalStaticApplied
	LagTimeA
	LagTimeB
	DelayRecordingTime
	MuteTimeStart
	MuteTimeEnd
	NS
	DT
	GainType
	InstrumentGainConstant
	InstrumentInitialGain
	Correlated
	SweepFrequencyStart
	SweepFrequencyEnd
	SweepLength
	SweepType
	SweepTraceTaperLengthStart
	SweepTraceTaperLengthEnd
	TaperType
	AliasFilterFrequency
	AliasFilterSlope
	NotchFilterFrequency
	NotchFilterSlope
	LowCutFrequency
	HighCutFrequency
	LowCutSlope
	HighCutSlope
	Year
	DayOfYear
	HourOfDay
	MinuteOfHour
	SecondOfMinute
	TimeCode
	TraceWeightingFactor
	GeophoneGroupNumberRoll
	GeophoneGroupNumberTraceStart
	GeophoneGroupNumberTraceEnd
	GapSize
	OverTravel
	CDPX
	CDPY
	Inline3D
	Crossline3D
	ShotPoint
	ShotPointScalar
	TraceValueMeasurementUnit
	TransductionConstantMantissa
	TransductionConstantPower
	TransductionUnit
	TraceIdentifier
	ScalarTraceHeader
	SourceType
	SourceEnergyDirectionMantissa
	SourceEnergyDirectionExponent
	SourceMeasurementMantissa
	SourceMeasurementExponent
	SourceMeasurementUnit
	Unassigned1
	Unassigned2

	// NumTraceFields is the number of trace header fields in the schema.
	NumTraceFields = int(Unassigned2) + 1
)

var traceSchema = [NumTraceFields]FieldInfo{
	TraceNumWithinLine:            {"TraceNumWithinLine", 0, Int32},
	TraceNumWithinFile:            {"TraceNumWithinFile", 4, Int32},
	FieldRecord:                   {"FieldRecord", 8, Int32},
	TraceNumber:                   {"TraceNumber", 12, Int32},
	EnergySourcePoint:             {"EnergySourcePoint", 16, Int32},
	CDP:                           {"CDP", 20, Int32},
	CDPTrace:                      {"CDPTrace", 24, Int32},
	TraceIDCode:                   {"TraceIDCode", 28, Int16},
	NSummedTraces:                 {"NSummedTraces", 30, Int16},
	NStackedTraces:                {"NStackedTraces", 32, Int16},
	DataUse:                       {"DataUse", 34, Int16},
	Offset:                        {"Offset", 36, Int32},
	RecGroupElevation:             {"RecGroupElevation", 40, Int32},
	SourceSurfaceElevation:        {"SourceSurfaceElevation", 44, Int32},
	SourceDepth:                   {"SourceDepth", 48, Int32},
	RecDatumElevation:             {"RecDatumElevation", 52, Int32},
	SourceDatumElevation:          {"SourceDatumElevation", 56, Int32},
	SourceWaterDepth:              {"SourceWaterDepth", 60, Int32},
	GroupWaterDepth:               {"GroupWaterDepth", 64, Int32},
	ElevationScalar:               {"ElevationScalar", 68, Int16},
	RecSourceScalar:               {"RecSourceScalar", 70, Int16},
	SourceX:                       {"SourceX", 72, Int32},
	SourceY:                       {"SourceY", 76, Int32},
	GroupX:                        {"GroupX", 80, Int32},
	GroupY:                        {"GroupY", 84, Int32},
	CoordUnits:                    {"CoordUnits", 88, Int16},
	WeatheringVelocity:            {"WeatheringVelocity", 90, Int16},
	SubWeatheringVelocity:         {"SubWeatheringVelocity", 92, Int16},
	UpholeTimeSource:              {"UpholeTimeSource", 94, Int16},
	UpholeTimeGroup:               {"UpholeTimeGroup", 96, Int16},
	StaticCorrectionSource:        {"StaticCorrectionSource", 98, Int16},
	StaticCorrectionGroup:         {"StaticCorrectionGroup", 100, Int16},
	TotalStaticApplied:            {"TotalStaticApplied", 102, Int16},
	LagTimeA:                      {"LagTimeA", 104, Int16},
	LagTimeB:                      {"LagTimeB", 106, Int16},
	DelayRecordingTime:            {"DelayRecordingTime", 108, Int16},
	MuteTimeStart:                 {"MuteTimeStart", 110, Int16},
	MuteTimeEnd:                   {"MuteTimeEnd", 112, Int16},
	NS:                            {"ns", 114, Uint16},
	DT:                            {"dt", 116, Uint16},
	GainType:                      {"GainType", 118, Int16},
	InstrumentGainConstant:        {"InstrumentGainConstant", 120, Int16},
	InstrumentInitialGain:         {"InstrumentInitialGain", 122, Int16},
	Correlated:                    {"Correlated", 124, Int16},
	SweepFrequencyStart:           {"SweepFrequencyStart", 126, Int16},
	SweepFrequencyEnd:             {"SweepFrequencyEnd", 128, Int16},
	SweepLength:                   {"SweepLength", 130, Int16},
	SweepType:                     {"SweepType", 132, Int16},
	SweepTraceTaperLengthStart:    {"SweepTraceTaperLengthStart", 134, Int16},
	SweepTraceTaperLengthEnd:      {"SweepTraceTaperLengthEnd", 136, Int16},
	TaperType:                     {"TaperType", 138, Int16},
	AliasFilterFrequency:          {"AliasFilterFrequency", 140, Int16},
	AliasFilterSlope:              {"AliasFilterSlope", 142, Int16},
	NotchFilterFrequency:          {"NotchFilterFrequency", 144, Int16},
	NotchFilterSlope:              {"NotchFilterSlope", 146, Int16},
	LowCutFrequency:               {"LowCutFrequency", 148, Int16},
	HighCutFrequency:              {"HighCutFrequency", 150, Int16},
	LowCutSlope:                   {"LowCutSlope", 152, Int16},
	HighCutSlope:                  {"HighCutSlope", 154, Int16},
	Year:                          {"Year", 156, Int16},
	DayOfYear:                     {"DayOfYear", 158, Int16},
	HourOfDay:                     {"HourOfDay", 160, Int16},
	MinuteOfHour:                  {"MinuteOfHour", 162, Int16},
	SecondOfMinute:                {"SecondOfMinute", 164, Int16},
	TimeCode:                      {"TimeCode", 166, Int16},
	TraceWeightingFactor:          {"TraceWeightingFactor", 168, Int16},
	GeophoneGroupNumberRoll:       {"GeophoneGroupNumberRoll", 170, Int16},
	GeophoneGroupNumberTraceStart: {"GeophoneGroupNumberTraceStart", 172, Int16},
	GeophoneGroupNumberTraceEnd:   {"GeophoneGroupNumberTraceEnd", 174, Int16},
	GapSize:                       {"GapSize", 176, Int16},
	OverTravel:                    {"OverTravel", 178, Int16},
	CDPX:                          {"CDPX", 180, Int32},
	CDPY:                          {"CDPY", 184, Int32},
	Inline3D:                      {"Inline3D", 188, Int32},
	Crossline3D:                   {"Crossline3D", 192, Int32},
	ShotPoint:                     {"ShotPoint", 196, Int32},
	ShotPointScalar:               {"ShotPointScalar", 200, Int16},
	TraceValueMeasurementUnit:     {"TraceValueMeasurementUnit", 202, Int16},
	TransductionConstantMantissa:  {"TransductionConstantMantissa", 204, Int32},
	TransductionConstantPower:     {"TransductionConstantPower", 208, Int16},
	TransductionUnit:              {"TransductionUnit", 210, Int16},
	TraceIdentifier:               {"TraceIdentifier", 212, Int16},
	ScalarTraceHeader:             {"ScalarTraceHeader", 214, Int16},
	SourceType:                    {"SourceType", 216, Int16},
	SourceEnergyDirectionMantissa: {"SourceEnergyDirectionMantissa", 218, Int32},
	SourceEnergyDirectionExponent: {"SourceEnergyDirectionExponent", 222, Int16},
	SourceMeasurementMantissa:     {"SourceMeasurementMantissa", 224, Int32},
	SourceMeasurementExponent:     {"SourceMeasurementExponent", 228, Int16},
	SourceMeasurementUnit:         {"SourceMeasurementUnit", 230, Int16},
	Unassigned1:                   {"Unassigned1", 232, Int32},
	Unassigned2:                   {"Unassigned2", 236, Int32},
}

// scalarOf maps coordinate and elevation fields to the trace header field
// holding their scalar (SEG-Y Rev 1 bytes 69-70, 71-72 and 201-202).
var scalarOf = map[TraceField]TraceField{
	RecGroupElevation:      ElevationScalar,
	SourceSurfaceElevation: ElevationScalar,
	SourceDepth:            ElevationScalar,
	RecDatumElevation:      ElevationScalar,
	SourceDatumElevation:   ElevationScalar,
	SourceWaterDepth:       ElevationScalar,
	GroupWaterDepth:        ElevationScalar,
	SourceX:                RecSourceScalar,
	SourceY:                RecSourceScalar,
	GroupX:                 RecSourceScalar,
	GroupY:                 RecSourceScalar,
	CDPX:                   RecSourceScalar,
	CDPY:                   RecSourceScalar,
	ShotPoint:              ShotPointScalar,
}

var traceFieldByName = func() map[string]TraceField {
	m := make(map[string]TraceField, NumTraceFields)
	for i, fi := range traceSchema {
		m[fi.Name] = TraceField(i)
	}
	return m
}()

// Valid reports whether f is part of the schema.
func (f TraceField) Valid() bool { return int(f) < NumTraceFields }

// Info returns the layout of f. It panics if f is not valid.
func (f TraceField) Info() FieldInfo { return traceSchema[f] }

func (f TraceField) String() string {
	if !f.Valid() {
		return fmt.Sprintf("TraceField(%d)", uint8(f))
	}
	return traceSchema[f].Name
}

// Scalar returns the field whose value scales f, if any.
func (f TraceField) Scalar() (TraceField, bool) {
	s, ok := scalarOf[f]
	return s, ok
}

// ParseTraceField resolves a trace header field by its schema name.
func ParseTraceField(name string) (TraceField, error) {
	f, ok := traceFieldByName[name]
	if !ok {
		return 0, &UnknownFieldError{Name: name, Record: "trace header"}
	}
	return f, nil
}

// ParseTraceFields resolves a list of names, failing on the first unknown one.
func ParseTraceFields(names ...string) ([]TraceField, error) {
	out := make([]TraceField, 0, len(names))
	for _, n := range names {
		f, err := ParseTraceField(n)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, nil
}

// AllTraceFields returns every trace header field in on-disk order.
func AllTraceFields() []TraceField {
	out := make([]TraceField, NumTraceFields)
	for i := range out {
		out[i] = TraceField(i)
	}
	return out
}

// ReadTraceField decodes a single field from a raw trace header.
// buf must hold at least TraceHeaderSize bytes.
func ReadTraceField(buf []byte, f TraceField, order binary.ByteOrder) int32 {
	return traceSchema[f].decode(buf, order)
}

// FileField identifies a field of the 400-byte binary file header.
type FileField uint8

// Binary file header fields in on-disk order.
const (
	FileJob FileField = iota
	FileLine
	FileReel
	FileDataTracePerEnsemble
	FileAuxiliaryTracePerEnsemble
	FileDT
	FileDTOrig
	FileNS
	FileNSOrig
	FileDataSampleFormat
	FileEnsembleFold
	FileTraceSorting
	FileVerticalSumCode
	FileSweepFrequencyStart
	FileSweepFrequencyEnd
	FileSweepLength
	FileSweepType
	FileSweepChannel
	FileSweepTaperLengthStart
	FileSweepTaperLengthEnd
	FileTaperType
	FileCorrelatedDataTraces
	FileBinaryGain
	FileAmplitudeRecoveryMethod
	FileMeasurementSystem
	FileImpulseSignalPolarity
	FileVibratoryPolarityCode
	FileSegyFormatRevisionNumber
	FileFixedLengthTraceFlag
	FileNumberOfExtTextualHeaders

	// NumFileFields is the number of binary file header fields in the schema.
	NumFileFields = int(FileNumberOfExtTextualHeaders) + 1
)

// Offsets are relative to the start of the binary header (file byte 3200).
var fileSchema = [NumFileFields]FieldInfo{
	FileJob:                       {"Job", 0, Int32},
	FileLine:                      {"Line", 4, Int32},
	FileReel:                      {"Reel", 8, Int32},
	FileDataTracePerEnsemble:      {"DataTracePerEnsemble", 12, Int16},
	FileAuxiliaryTracePerEnsemble: {"AuxiliaryTracePerEnsemble", 14, Int16},
	FileDT:                        {"dt", 16, Uint16},
	FileDTOrig:                    {"dtOrig", 18, Uint16},
	FileNS:                        {"ns", 20, Uint16},
	FileNSOrig:                    {"nsOrig", 22, Uint16},
	FileDataSampleFormat:          {"DataSampleFormat", 24, Int16},
	FileEnsembleFold:              {"EnsembleFold", 26, Int16},
	FileTraceSorting:              {"TraceSorting", 28, Int16},
	FileVerticalSumCode:           {"VerticalSumCode", 30, Int16},
	FileSweepFrequencyStart:       {"SweepFrequencyStart", 32, Int16},
	FileSweepFrequencyEnd:         {"SweepFrequencyEnd", 34, Int16},
	FileSweepLength:               {"SweepLength", 36, Int16},
	FileSweepType:                 {"SweepType", 38, Int16},
	FileSweepChannel:              {"SweepChannel", 40, Int16},
	FileSweepTaperLengthStart:     {"SweepTaperLengthStart", 42, Int16},
	FileSweepTaperLengthEnd:       {"SweepTaperLengthEnd", 44, Int16},
	FileTaperType:                 {"TaperType", 46, Int16},
	FileCorrelatedDataTraces:      {"CorrelatedDataTraces", 48, Int16},
	FileBinaryGain:                {"BinaryGain", 50, Int16},
	FileAmplitudeRecoveryMethod:   {"AmplitudeRecoveryMethod", 52, Int16},
	FileMeasurementSystem:         {"MeasurementSystem", 54, Int16},
	FileImpulseSignalPolarity:     {"ImpulseSignalPolarity", 56, Int16},
	FileVibratoryPolarityCode:     {"VibratoryPolarityCode", 58, Int16},
	FileSegyFormatRevisionNumber:  {"SegyFormatRevisionNumber", 300, Uint16},
	FileFixedLengthTraceFlag:      {"FixedLengthTraceFlag", 302, Int16},
	FileNumberOfExtTextualHeaders: {"NumberOfExtTextualHeaders", 304, Int16},
}

var fileFieldByName = func() map[string]FileField {
	m := make(map[string]FileField, NumFileFields)
	for i, fi := range fileSchema {
		m[fi.Name] = FileField(i)
	}
	return m
}()

// Valid reports whether f is part of the schema.
func (f FileField) Valid() bool { return int(f) < NumFileFields }

// Info returns the layout of f. It panics if f is not valid.
func (f FileField) Info() FieldInfo { return fileSchema[f] }

func (f FileField) String() string {
	if !f.Valid() {
		return fmt.Sprintf("FileField(%d)", uint8(f))
	}
	return fileSchema[f].Name
}

// ParseFileField resolves a binary file header field by its schema name.
func ParseFileField(name string) (FileField, error) {
	f, ok := fileFieldByName[name]
	if !ok {
		return 0, &UnknownFieldError{Name: name, Record: "binary file header"}
	}
	return f, nil
}

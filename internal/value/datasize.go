package value

import "fmt"

// DataSizeUnit is one of the eleven size units from spec section 3: decimal
// (b,kb,mb,gb,tb,pb) and binary (kib,mib,gib,tib,pib).
type DataSizeUnit uint8

// Data size units.
const (
	UnitBytes DataSizeUnit = iota
	Kilobytes
	Megabytes
	Gigabytes
	Terabytes
	Petabytes
	Kibibytes
	Mebibytes
	Gibibytes
	Tebibytes
	Pebibytes
)

var dataSizeUnitNames = [...]string{"b", "kb", "mb", "gb", "tb", "pb", "kib", "mib", "gib", "tib", "pib"}

var dataSizeUnitBytes = [...]float64{
	1,
	1e3, 1e6, 1e9, 1e12, 1e15,
	1 << 10, 1 << 20, 1 << 30, 1 << 40, 1 << 50,
}

// String renders the unit's Pkl spelling.
func (u DataSizeUnit) String() string { return dataSizeUnitNames[u] }

// ParseDataSizeUnit resolves a Pkl data-size unit spelling.
func ParseDataSizeUnit(s string) (DataSizeUnit, bool) {
	for i, n := range dataSizeUnitNames {
		if n == s {
			return DataSizeUnit(i), true
		}
	}

	return 0, false
}

// DataSize is a value + unit pair (spec section 3).
type DataSize struct {
	Value float64
	Unit  DataSizeUnit
}

// NewDataSize constructs a DataSize.
func NewDataSize(v float64, u DataSizeUnit) DataSize { return DataSize{v, u} }

// BytesValue returns this size's value in canonical bytes.
func (d DataSize) BytesValue() float64 { return d.Value * dataSizeUnitBytes[d.Unit] }

// Kind implements Value.
func (DataSize) Kind() Kind { return KindDataSize }

// Equals implements Value: compares canonical byte magnitude, so `1.gib`
// equals `1024.mib`.
func (d DataSize) Equals(other Value) bool {
	o, ok := other.(DataSize)
	return ok && d.BytesValue() == o.BytesValue()
}

// Hash implements Value.
func (d DataSize) Hash() uint64 { return hashNumeric(d.BytesValue()) }

// String implements Value.
func (d DataSize) String() string { return fmt.Sprintf("%g.%s", d.Value, d.Unit) }

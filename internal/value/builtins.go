package value

// Builtin class descriptors for the scalar and collection variants (spec
// section 3's primitive and collection kinds). Dynamic/Listing/Mapping's
// builtin classes live next to their value types (dynamic.go/listing.go/
// mapping.go); these are the remaining stdlib classes the type checker
// resolves `Class C` type expressions like `Int`, `String` or `List` against.
var (
	NullClass     = NewBuiltinClass("Null", KindNull)
	BooleanClass  = NewBuiltinClass("Boolean", KindBoolean)
	IntClass      = NewBuiltinClass("Int", KindInt)
	FloatClass    = NewBuiltinClass("Float", KindFloat)
	NumberClass   = NewBuiltinClass("Number", KindInt) // abstract numeric supertype; see BuiltinClasses note
	StringClass   = NewBuiltinClass("String", KindString)
	BytesClass    = NewBuiltinClass("Bytes", KindBytes)
	DurationClass = NewBuiltinClass("Duration", KindDuration)
	DataSizeClass = NewBuiltinClass("DataSize", KindDataSize)
	PairClass     = NewBuiltinClass("Pair", KindPair)
	IntSeqClass   = NewBuiltinClass("IntSeq", KindIntSeq)
	RegexClass    = NewBuiltinClass("Regex", KindRegex)
	ListClass     = NewBuiltinClass("List", KindList)
	SetClass      = NewBuiltinClass("Set", KindSet)
	MapClass      = NewBuiltinClass("Map", KindMap)
	FunctionClass = NewBuiltinClass("Function", KindFunction)
	ClassClass    = NewBuiltinClass("Class", KindClass)
	TypeAliasC    = NewBuiltinClass("TypeAlias", KindTypeAlias)
)

func init() {
	IntClass.Super = NumberClass
	FloatClass.Super = NumberClass
}

// BuiltinClasses indexes every stdlib class by its qualified name, used by
// the type checker (package types) to resolve a bare `Class C` type
// expression without requiring a full module/class-table lookup for names
// the base module declares.
var BuiltinClasses = map[string]*Class{
	"Null":      NullClass,
	"Boolean":   BooleanClass,
	"Int":       IntClass,
	"Float":     FloatClass,
	"Number":    NumberClass,
	"String":    StringClass,
	"Bytes":     BytesClass,
	"Duration":  DurationClass,
	"DataSize":  DataSizeClass,
	"Pair":      PairClass,
	"IntSeq":    IntSeqClass,
	"Regex":     RegexClass,
	"List":      ListClass,
	"Set":       SetClass,
	"Map":       MapClass,
	"Function":  FunctionClass,
	"Class":     ClassClass,
	"TypeAlias": TypeAliasC,
	"Dynamic":   DynamicClass,
	"Listing":   ListingClass,
	"Mapping":   MappingClass,
}

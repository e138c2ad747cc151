package armlet

// Builtins returns the signatures every checker starts with. These are
// runtime symbols the generated code calls by name; nothing here is defined
// in source. Drivers extend the set through Checker.Declare or
// Compiler.Declare.
func Builtins() map[string]*FuncType {
	return map[string]*FuncType{
		"putchar": {
			Params:  []Param{{Name: "char", Type: &NumberType{}}},
			Returns: &VoidType{},
		},
	}
}

package builtins

// FuncSpec describes a built-in function for help output.
type FuncSpec struct {
	Name    string
	Doc     string
	Args    []string
	Returns string
	Example string
}

// Docs returns documentation for all builtin functions.
func Docs() []FuncSpec {
	return builtinDocs
}

var builtinDocs = []FuncSpec{
	{
		Name:    "append",
		Doc:     "Append values to a list in place",
		Args:    []string{"list", "values..."},
		Returns: "list",
		Example: "append(items, 4, 5)",
	},
	{
		Name:    "assert",
		Doc:     "Raise an error if condition is false",
		Args:    []string{"condition", "message?"},
		Returns: "nil",
		Example: "assert(x > 0, \"x must be positive\")",
	},
	{
		Name:    "error",
		Doc:     "Raise an error carrying a value",
		Args:    []string{"value"},
		Returns: "never",
		Example: "error(\"file not found\")",
	},
	{
		Name:    "float",
		Doc:     "Convert value to float",
		Args:    []string{"value?"},
		Returns: "float",
		Example: "float(\"3.14\")",
	},
	{
		Name:    "int",
		Doc:     "Convert value to int",
		Args:    []string{"value?"},
		Returns: "int",
		Example: "int(\"42\")",
	},
	{
		Name:    "keys",
		Doc:     "Return the sorted keys of a map or the indexes of a list",
		Args:    []string{"container"},
		Returns: "list",
		Example: "keys({a: 1, b: 2})",
	},
	{
		Name:    "len",
		Doc:     "Return length of a string, list or map",
		Args:    []string{"container"},
		Returns: "int",
		Example: "len([1, 2, 3])",
	},
	{
		Name:    "pcall",
		Doc:     "Call a function and catch the error it raises",
		Args:    []string{"fn", "args..."},
		Returns: "list",
		Example: "let r = pcall(risky, 1)",
	},
	{
		Name:    "print",
		Doc:     "Print values separated by spaces",
		Args:    []string{"values..."},
		Returns: "nil",
		Example: "print(\"x =\", x)",
	},
	{
		Name:    "range",
		Doc:     "Return a list of ints from start to stop by step",
		Args:    []string{"start?", "stop", "step?"},
		Returns: "list",
		Example: "range(0, 10, 2)",
	},
	{
		Name:    "str",
		Doc:     "Convert value to string",
		Args:    []string{"value?"},
		Returns: "string",
		Example: "str(42)",
	},
	{
		Name:    "type",
		Doc:     "Return the type name of a value",
		Args:    []string{"value"},
		Returns: "string",
		Example: "type(42)",
	},
}

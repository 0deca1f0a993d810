package evaluator

import (
	"fmt"
	"strings"
)

// Builtins are the functions available in every environment. print and type
// have no declared parameter list; they cannot be introspected and so cannot
// serve as a statically-resolved forwarding target.
var Builtins = map[string]*Builtin{
	"print": {
		Name: "print",
		Fn: func(e *Evaluator, args ...Object) Object {
			parts := make([]string, len(args))
			for i, arg := range args {
				parts[i] = arg.Inspect()
			}
			fmt.Fprintln(e.Output(), strings.Join(parts, " "))
			return &Nil{}
		},
	},
	"type": {
		Name: "type",
		Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newError("wrong number of arguments to type. got=%d, want=1", len(args))
			}
			return &String{Value: string(args[0].Type())}
		},
	},
	"len": {
		Name:   "len",
		Params: []string{"value"},
		Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newError("wrong number of arguments to len. got=%d, want=1", len(args))
			}
			switch arg := args[0].(type) {
			case *String:
				return &Integer{Value: int64(len(arg.Value))}
			case *List:
				return &Integer{Value: int64(len(arg.Elements))}
			case *Dict:
				return &Integer{Value: int64(arg.Len())}
			default:
				return newError("argument to len not supported, got %s", args[0].Type())
			}
		},
	},
	"keys": {
		Name:   "keys",
		Params: []string{"dict"},
		Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newError("wrong number of arguments to keys. got=%d, want=1", len(args))
			}
			dict, ok := args[0].(*Dict)
			if !ok {
				return newError("argument to keys must be a dict, got %s", args[0].Type())
			}
			list := &List{}
			for _, k := range dict.Keys() {
				list.Elements = append(list.Elements, &String{Value: k})
			}
			return list
		},
	},
	"str": {
		Name:   "str",
		Params: []string{"value"},
		Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 1 {
				return newError("wrong number of arguments to str. got=%d, want=1", len(args))
			}
			return &String{Value: args[0].Inspect()}
		},
	},
	"push": {
		Name:   "push",
		Params: []string{"list", "value"},
		Fn: func(e *Evaluator, args ...Object) Object {
			if len(args) != 2 {
				return newError("wrong number of arguments to push. got=%d, want=2", len(args))
			}
			list, ok := args[0].(*List)
			if !ok {
				return newError("argument to push must be a list, got %s", args[0].Type())
			}
			list.Add(args[1])
			return list
		},
	},
}

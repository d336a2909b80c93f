package stdlib

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
)

func coreNatives() []native {
	return []native{
		{"print", -1, nativePrint},
		{"println", -1, nativePrintln},
		{"len", 1, nativeLen},
		{"str", 1, nativeStr},
		{"int", 1, nativeInt},
		{"type", 1, nativeType},
		{"clock", 0, nativeClock},
		{"uuid", 0, nativeUUID},
	}
}

func joinArgs(args []bytecode.Value) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	return strings.Join(parts, " ")
}

func nativePrint(args []bytecode.Value) bytecode.Value {
	fmt.Print(joinArgs(args))
	return bytecode.Null()
}

func nativePrintln(args []bytecode.Value) bytecode.Value {
	fmt.Println(joinArgs(args))
	return bytecode.Null()
}

func nativeLen(args []bytecode.Value) bytecode.Value {
	switch v := args[0]; v.Kind {
	case bytecode.StringValue:
		return bytecode.Int(int64(len(v.Str)))
	case bytecode.TableValue:
		return bytecode.Int(int64(v.Table.Len()))
	}
	return bytecode.Null()
}

func nativeStr(args []bytecode.Value) bytecode.Value {
	return bytecode.Str(args[0].String())
}

func nativeInt(args []bytecode.Value) bytecode.Value {
	switch v := args[0]; v.Kind {
	case bytecode.IntValue:
		return v
	case bytecode.FloatValue:
		return bytecode.Int(int64(v.Float))
	case bytecode.BoolValue:
		if v.Bool {
			return bytecode.Int(1)
		}
		return bytecode.Int(0)
	case bytecode.StringValue:
		if n, err := strconv.ParseInt(v.Str, 10, 64); err == nil {
			return bytecode.Int(n)
		}
	}
	return bytecode.Null()
}

func nativeType(args []bytecode.Value) bytecode.Value {
	switch args[0].Kind {
	case bytecode.NullValue:
		return bytecode.Str("null")
	case bytecode.IntValue:
		return bytecode.Str("int")
	case bytecode.FloatValue:
		return bytecode.Str("float")
	case bytecode.BoolValue:
		return bytecode.Str("bool")
	case bytecode.StringValue:
		return bytecode.Str("string")
	case bytecode.TableValue:
		return bytecode.Str("table")
	case bytecode.ProgramValue, bytecode.ClosureValue:
		return bytecode.Str("function")
	}
	return bytecode.Str("unknown")
}

func nativeClock(args []bytecode.Value) bytecode.Value {
	return bytecode.Float(float64(time.Now().UnixNano()) / 1e9)
}

func nativeUUID(args []bytecode.Value) bytecode.Value {
	return bytecode.Str(uuid.NewString())
}

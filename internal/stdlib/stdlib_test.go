package stdlib

import (
	"testing"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
)

func TestInstallBindsNatives(t *testing.T) {
	p := bytecode.NewProgram(0, nil)
	binds, err := Install(p)
	if err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"print", "len", "uuid", "db_open", "ws_connect"} {
		slot, ok := p.Symbols.Lookup(name)
		if !ok {
			t.Errorf("native %s not bound", name)
			continue
		}
		v, ok := binds[slot]
		if !ok {
			t.Errorf("native %s has no slot seed", name)
			continue
		}
		if v.Kind != bytecode.ProgramValue || v.Program.Native == nil {
			t.Errorf("native %s seed is not a native program", name)
		}
	}

	if len(p.Constants) != len(binds) {
		t.Errorf("%d constants for %d bindings", len(p.Constants), len(binds))
	}
}

func TestCoreNatives(t *testing.T) {
	tab := bytecode.NewTable()
	tab.Set(bytecode.Str("k"), bytecode.Int(1))

	tests := []struct {
		name string
		fn   bytecode.Native
		args []bytecode.Value
		want bytecode.Value
	}{
		{"len of string", nativeLen, []bytecode.Value{bytecode.Str("abcd")}, bytecode.Int(4)},
		{"len of table", nativeLen, []bytecode.Value{bytecode.TableVal(tab)}, bytecode.Int(1)},
		{"len of int", nativeLen, []bytecode.Value{bytecode.Int(9)}, bytecode.Null()},
		{"str of int", nativeStr, []bytecode.Value{bytecode.Int(42)}, bytecode.Str("42")},
		{"str of bool", nativeStr, []bytecode.Value{bytecode.BoolVal(true)}, bytecode.Str("true")},
		{"int of float", nativeInt, []bytecode.Value{bytecode.Float(3.9)}, bytecode.Int(3)},
		{"int of string", nativeInt, []bytecode.Value{bytecode.Str("17")}, bytecode.Int(17)},
		{"int of garbage", nativeInt, []bytecode.Value{bytecode.Str("x")}, bytecode.Null()},
		{"type of null", nativeType, []bytecode.Value{bytecode.Null()}, bytecode.Str("null")},
		{"type of table", nativeType, []bytecode.Value{bytecode.TableVal(tab)}, bytecode.Str("table")},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			if got := test.fn(test.args); got != test.want {
				t.Errorf("got %s, want %s", got.String(), test.want.String())
			}
		})
	}
}

func TestUUIDNative(t *testing.T) {
	a := nativeUUID(nil)
	b := nativeUUID(nil)
	if a.Kind != bytecode.StringValue || len(a.Str) != 36 {
		t.Errorf("uuid = %s", a.String())
	}
	if a == b {
		t.Error("uuid should differ between calls")
	}
}

func TestSqliteNatives(t *testing.T) {
	handle := nativeDbOpen([]bytecode.Value{bytecode.Str("sqlite"), bytecode.Str(":memory:")})
	if handle.Kind != bytecode.IntValue {
		t.Fatalf("db_open = %s", handle.String())
	}
	defer nativeDbClose([]bytecode.Value{handle})

	if r := nativeDbExec([]bytecode.Value{handle, bytecode.Str("create table t (id integer, name text)")}); r.Kind == bytecode.TableValue {
		t.Fatalf("create table failed: %s", r.String())
	}

	affected := nativeDbExec([]bytecode.Value{handle, bytecode.Str("insert into t values (1, 'alice'), (2, 'bob')")})
	if affected != bytecode.Int(2) {
		t.Errorf("insert affected %s rows, want 2", affected.String())
	}

	rows := nativeDbQuery([]bytecode.Value{handle, bytecode.Str("select id, name from t order by id")})
	if rows.Kind != bytecode.TableValue {
		t.Fatalf("db_query = %s", rows.String())
	}
	if rows.Table.Len() != 2 {
		t.Fatalf("query returned %d rows", rows.Table.Len())
	}

	first := rows.Table.Get(bytecode.Int(0))
	if first.Kind != bytecode.TableValue {
		t.Fatalf("row 0 = %s", first.String())
	}
	if id := first.Table.Get(bytecode.Str("id")); id != bytecode.Int(1) {
		t.Errorf("row 0 id = %s", id.String())
	}
	if name := first.Table.Get(bytecode.Str("name")); name != bytecode.Str("alice") {
		t.Errorf("row 0 name = %s", name.String())
	}
}

func TestDbBadHandle(t *testing.T) {
	r := nativeDbExec([]bytecode.Value{bytecode.Int(9999), bytecode.Str("select 1")})
	if r.Kind != bytecode.TableValue {
		t.Fatalf("expected an error table, got %s", r.String())
	}
	if r.Table.Get(bytecode.Str("error")).Kind != bytecode.StringValue {
		t.Error("error table missing the error entry")
	}
}

func TestWsBadHandle(t *testing.T) {
	r := nativeWsSend([]bytecode.Value{bytecode.Int(12345), bytecode.Str("hi")})
	if r.Kind != bytecode.TableValue {
		t.Fatalf("expected an error table, got %s", r.String())
	}
}

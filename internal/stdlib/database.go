package stdlib

import (
	"database/sql"
	"fmt"
	"sync"

	// Database drivers selected by the first argument of db_open.
	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"

	"github.com/Supamang2122/helium-interpreter/internal/bytecode"
)

func databaseNatives() []native {
	return []native{
		{"db_open", 2, nativeDbOpen},
		{"db_exec", 2, nativeDbExec},
		{"db_query", 2, nativeDbQuery},
		{"db_close", 1, nativeDbClose},
	}
}

// dbPool maps integer handles held by scripts to open connections.
var dbPool = struct {
	mu    sync.Mutex
	next  int64
	conns map[int64]*sql.DB
}{conns: make(map[int64]*sql.DB)}

func dbConn(v bytecode.Value) (*sql.DB, error) {
	if v.Kind != bytecode.IntValue {
		return nil, fmt.Errorf("database handle must be an int, got %s", v.String())
	}
	dbPool.mu.Lock()
	defer dbPool.mu.Unlock()
	conn, ok := dbPool.conns[v.Int]
	if !ok {
		return nil, fmt.Errorf("unknown database handle %d", v.Int)
	}
	return conn, nil
}

func nativeDbOpen(args []bytecode.Value) bytecode.Value {
	driver := args[0].String()
	dsn := args[1].String()

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return errTable(err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return errTable(err)
	}

	dbPool.mu.Lock()
	defer dbPool.mu.Unlock()
	dbPool.next++
	dbPool.conns[dbPool.next] = conn
	return bytecode.Int(dbPool.next)
}

func nativeDbExec(args []bytecode.Value) bytecode.Value {
	conn, err := dbConn(args[0])
	if err != nil {
		return errTable(err)
	}
	res, err := conn.Exec(args[1].String())
	if err != nil {
		return errTable(err)
	}
	affected, _ := res.RowsAffected()
	return bytecode.Int(affected)
}

// nativeDbQuery returns a table of row tables indexed from zero, each row
// keyed by column name.
func nativeDbQuery(args []bytecode.Value) bytecode.Value {
	conn, err := dbConn(args[0])
	if err != nil {
		return errTable(err)
	}
	rows, err := conn.Query(args[1].String())
	if err != nil {
		return errTable(err)
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return errTable(err)
	}

	result := bytecode.NewTable()
	index := int64(0)
	for rows.Next() {
		cells := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return errTable(err)
		}

		row := bytecode.NewTable()
		for i, col := range cols {
			row.Set(bytecode.Str(col), sqlValue(cells[i]))
		}
		result.Set(bytecode.Int(index), bytecode.TableVal(row))
		index++
	}
	if err := rows.Err(); err != nil {
		return errTable(err)
	}
	return bytecode.TableVal(result)
}

func nativeDbClose(args []bytecode.Value) bytecode.Value {
	if args[0].Kind != bytecode.IntValue {
		return bytecode.BoolVal(false)
	}
	dbPool.mu.Lock()
	defer dbPool.mu.Unlock()
	conn, ok := dbPool.conns[args[0].Int]
	if !ok {
		return bytecode.BoolVal(false)
	}
	delete(dbPool.conns, args[0].Int)
	conn.Close()
	return bytecode.BoolVal(true)
}

func sqlValue(cell any) bytecode.Value {
	switch v := cell.(type) {
	case nil:
		return bytecode.Null()
	case int64:
		return bytecode.Int(v)
	case float64:
		return bytecode.Float(v)
	case bool:
		return bytecode.BoolVal(v)
	case string:
		return bytecode.Str(v)
	case []byte:
		return bytecode.Str(string(v))
	}
	return bytecode.Str(fmt.Sprintf("%v", cell))
}

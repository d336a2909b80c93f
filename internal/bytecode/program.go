package bytecode

// SymbolTable is an ordered mapping from names to stack slots. Slots are
// contiguous from zero and never change once assigned.
type SymbolTable struct {
	names []string
	slots map[string]int
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{slots: make(map[string]int)}
}

func (t *SymbolTable) Lookup(name string) (int, bool) {
	slot, ok := t.slots[name]
	return slot, ok
}

// Define assigns the next slot to name. Callers check for duplicates first.
func (t *SymbolTable) Define(name string) int {
	slot := len(t.names)
	t.names = append(t.names, name)
	t.slots[name] = slot
	return slot
}

func (t *SymbolTable) Len() int {
	return len(t.names)
}

// Name returns the symbol occupying slot, for disassembly.
func (t *SymbolTable) Name(slot int) string {
	if slot >= 0 && slot < len(t.names) {
		return t.names[slot]
	}
	return "?"
}

// ClosureTable is an ordered mapping from captured names to the local slot
// they occupy in the enclosing scope. The entry's ordinal is the closed
// slot addressed by LOADC/STORC.
type ClosureTable struct {
	names  []string
	outers []int
	index  map[string]int
}

func NewClosureTable() *ClosureTable {
	return &ClosureTable{index: make(map[string]int)}
}

func (t *ClosureTable) Lookup(name string) (int, bool) {
	closed, ok := t.index[name]
	return closed, ok
}

// Add binds name to an enclosing-scope slot and returns the new closed slot.
func (t *ClosureTable) Add(name string, outerSlot int) int {
	closed := len(t.names)
	t.names = append(t.names, name)
	t.outers = append(t.outers, outerSlot)
	t.index[name] = closed
	return closed
}

func (t *ClosureTable) Len() int {
	return len(t.names)
}

// OuterSlot returns the enclosing-scope slot captured by closed slot i.
func (t *ClosureTable) OuterSlot(i int) int {
	return t.outers[i]
}

func (t *ClosureTable) Name(i int) string {
	if i >= 0 && i < len(t.names) {
		return t.names[i]
	}
	return "?"
}

// LineTable maps source lines to the first instruction emitted for them.
// Both columns grow monotonically.
type LineTable struct {
	lines []int
	addrs []int
}

func NewLineTable() *LineTable {
	return &LineTable{}
}

// Record notes that the next instruction index addr belongs to line. A line
// at or below the last recorded line is ignored.
func (t *LineTable) Record(line, addr int) {
	if n := len(t.lines); n > 0 && t.lines[n-1] >= line {
		return
	}
	t.lines = append(t.lines, line)
	t.addrs = append(t.addrs, addr)
}

// Addr returns the first instruction index on line.
func (t *LineTable) Addr(line int) (int, bool) {
	for i, l := range t.lines {
		if l == line {
			return t.addrs[i], true
		}
	}
	return 0, false
}

// Line returns the source line owning the instruction at addr.
func (t *LineTable) Line(addr int) int {
	line := 0
	for i := range t.lines {
		if t.addrs[i] > addr {
			break
		}
		line = t.lines[i]
	}
	return line
}

// Program is one compilation unit: the top-level script or a single
// function body. It exclusively owns its code, constants and tables; the
// parent back-reference exists only for name resolution during compilation.
type Program struct {
	Code      []Instruction
	Constants []Value
	Argc      int
	Parent    *Program
	Native    Native

	Symbols       *SymbolTable
	ConstantIndex map[string]int
	Closures      *ClosureTable
	LineAddresses *LineTable
}

func NewProgram(argc int, parent *Program) *Program {
	return &Program{
		Argc:          argc,
		Parent:        parent,
		Symbols:       NewSymbolTable(),
		ConstantIndex: make(map[string]int),
		Closures:      NewClosureTable(),
		LineAddresses: NewLineTable(),
	}
}

// Emit appends one instruction and returns its index. Appending is
// monotone: indices never shift.
func (p *Program) Emit(i Instruction) int {
	p.Code = append(p.Code, i)
	return len(p.Code) - 1
}

// Patch rewrites the instruction at index in place, for forward jumps.
func (p *Program) Patch(index int, i Instruction) {
	p.Code[index] = i
}

// AddConstant appends v to the pool and returns its index. Deduplication
// is the compiler's concern.
func (p *Program) AddConstant(v Value) int {
	p.Constants = append(p.Constants, v)
	return len(p.Constants) - 1
}

// Sever drops parent links on this program and every program constant.
// Resolution is over once compilation completes.
func (p *Program) Sever() {
	p.Parent = nil
	for _, c := range p.Constants {
		if c.Kind == ProgramValue && c.Program.Parent != nil {
			c.Program.Sever()
		}
	}
}

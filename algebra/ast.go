package algebra

// Expr is a node in the process-algebra AST. The tree is acyclic by
// construction: recursion is expressed through Ref, a named back-reference
// resolved against the definition table at translation time, never through
// a structural pointer.
type Expr interface {
	exprNode()
}

// Action is a single named action.
type Action struct {
	Name string
	Pos  int
}

// Sequence composes Left then Right ('.').
type Sequence struct {
	Left  Expr
	Right Expr
}

// Choice composes Left or Right ('+').
type Choice struct {
	Left  Expr
	Right Expr
}

// Parallel composes Left and Right concurrently ('|').
type Parallel struct {
	Left  Expr
	Right Expr
}

// Ref is a named reference to a process definition.
type Ref struct {
	Name string
	Pos  int
}

// Stop is the terminal process.
type Stop struct{}

func (*Action) exprNode()   {}
func (*Sequence) exprNode() {}
func (*Choice) exprNode()   {}
func (*Parallel) exprNode() {}
func (*Ref) exprNode()      {}
func (*Stop) exprNode()     {}

// Definition binds a name to a process body.
type Definition struct {
	Name string
	Body Expr
	Pos  int
}

// Program is a parsed source file: the process definitions in source order
// plus at most one bare MAIN expression. When the source contains several
// bare expressions the last one wins.
type Program struct {
	Definitions []*Definition
	Main        Expr

	byName map[string]*Definition
}

// Definition returns the definition with the given name, or nil.
func (p *Program) Definition(name string) *Definition {
	return p.byName[name]
}

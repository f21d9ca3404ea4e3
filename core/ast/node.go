package ast

// Kind identifies the variant carried by a Node.
type Kind uint8

const (
	KindProgram Kind = iota
	KindStringLiteral
	KindTemplateLiteral
	KindCallExpression
	KindMemberExpression
	KindTaggedTemplateExpression
	KindChainExpression
)

func (k Kind) String() string {
	switch k {
	case KindProgram:
		return "Program"
	case KindStringLiteral:
		return "StringLiteral"
	case KindTemplateLiteral:
		return "TemplateLiteral"
	case KindCallExpression:
		return "CallExpression"
	case KindMemberExpression:
		return "MemberExpression"
	case KindTaggedTemplateExpression:
		return "TaggedTemplateExpression"
	case KindChainExpression:
		return "ChainExpression"
	}
	return "Unknown"
}

// NodeID is the index of a node in its Tree. The root is always 0.
type NodeID uint32

// NoParent is the parent id of the root node.
const NoParent NodeID = ^NodeID(0)

// Payload is the closed set of node variants. Rules switch on the concrete type.
type Payload interface {
	Kind() Kind
	NodeSpan() Span
	payload()
}

// Node is one vertex of a syntax tree.
type Node struct {
	ID     NodeID
	Parent NodeID
	Data   Payload
}

func (n *Node) Kind() Kind {
	return n.Data.Kind()
}

func (n *Node) Span() Span {
	return n.Data.NodeSpan()
}

type Program struct {
	Span Span
}

// StringLiteral holds the decoded value of a quoted string.
type StringLiteral struct {
	Span  Span
	Value string
}

// TemplateElement is one static chunk of a template literal.
type TemplateElement struct {
	Span Span
	Raw  string
	// Cooked is empty with Valid false when the chunk has an invalid escape.
	Cooked string
	Valid  bool
}

type TemplateLiteral struct {
	Span        Span
	Quasis      []TemplateElement
	Expressions []Span
}

// Quasi returns the template's text when it has no interpolation.
func (t *TemplateLiteral) Quasi() (string, bool) {
	if len(t.Expressions) != 0 || len(t.Quasis) != 1 {
		return "", false
	}
	q := t.Quasis[0]
	if !q.Valid {
		return "", false
	}
	return q.Cooked, true
}

type CallExpression struct {
	Span     Span
	Callee   Span
	Optional bool
}

type MemberExpression struct {
	Span     Span
	Object   Span
	Computed bool
	Optional bool
}

type TaggedTemplateExpression struct {
	Span           Span
	Tag            Span
	TypeParameters *Span
}

type ChainExpression struct {
	Span Span
}

func (*Program) Kind() Kind                  { return KindProgram }
func (*StringLiteral) Kind() Kind            { return KindStringLiteral }
func (*TemplateLiteral) Kind() Kind          { return KindTemplateLiteral }
func (*CallExpression) Kind() Kind           { return KindCallExpression }
func (*MemberExpression) Kind() Kind         { return KindMemberExpression }
func (*TaggedTemplateExpression) Kind() Kind { return KindTaggedTemplateExpression }
func (*ChainExpression) Kind() Kind          { return KindChainExpression }

func (p *Program) NodeSpan() Span                  { return p.Span }
func (s *StringLiteral) NodeSpan() Span            { return s.Span }
func (t *TemplateLiteral) NodeSpan() Span          { return t.Span }
func (c *CallExpression) NodeSpan() Span           { return c.Span }
func (m *MemberExpression) NodeSpan() Span         { return m.Span }
func (t *TaggedTemplateExpression) NodeSpan() Span { return t.Span }
func (c *ChainExpression) NodeSpan() Span          { return c.Span }

func (*Program) payload()                  {}
func (*StringLiteral) payload()            {}
func (*TemplateLiteral) payload()          {}
func (*CallExpression) payload()           {}
func (*MemberExpression) payload()         {}
func (*TaggedTemplateExpression) payload() {}
func (*ChainExpression) payload()          {}

// Package syntax defines the read-only tree the matching engine walks: a
// Node contract with a tagged Kind, an immutable in-memory implementation,
// and lazy traversals over ancestors, siblings and leaves.
package syntax

import "fmt"

// Kind is the syntactic type tag of a node. Kinds are compared by value.
type Kind uint8

const (
	Invalid Kind = iota

	// Leaves.
	Identifier
	Keyword
	Whitespace
	LineComment
	BlockComment
	Semicolon
	Colon
	ColonColon
	Comma
	Eq
	Pound
	Excl
	LBrace
	RBrace
	LParen
	RParen
	LBrack
	RBrack
	StringLiteral
	NumberLiteral
	Punct

	// Composites.
	File
	Error
	OuterAttr
	InnerAttr
	MetaItem
	MetaItemArgs
	Path
	LitExpr
	StructItem
	EnumItem
	EnumBody
	EnumVariant
	Function
	ModItem
	ModDeclItem
	Constant
	Macro
	MacroCall
	IncludeMacroArgument
	TraitItem
	ImplItem
	TraitRef
	Members
	ForeignModItem
	ExternCrateItem
	UseItem
	UseSpeck
	TupleFields
	BlockFields
	Block
	ExprStmt
	LetDecl
	ForExpr
	LoopExpr
	WhileExpr
	LambdaExpr
	TokenTree
	Other

	kindCount
)

var kindNames = [...]string{
	Invalid:              "INVALID",
	Identifier:           "IDENTIFIER",
	Keyword:              "KEYWORD",
	Whitespace:           "WHITE_SPACE",
	LineComment:          "LINE_COMMENT",
	BlockComment:         "BLOCK_COMMENT",
	Semicolon:            "SEMICOLON",
	Colon:                "COLON",
	ColonColon:           "COLONCOLON",
	Comma:                "COMMA",
	Eq:                   "EQ",
	Pound:                "SHA",
	Excl:                 "EXCL",
	LBrace:               "LBRACE",
	RBrace:               "RBRACE",
	LParen:               "LPAREN",
	RParen:               "RPAREN",
	LBrack:               "LBRACK",
	RBrack:               "RBRACK",
	StringLiteral:        "STRING_LITERAL",
	NumberLiteral:        "NUMBER_LITERAL",
	Punct:                "PUNCT",
	File:                 "FILE",
	Error:                "ERROR_ELEMENT",
	OuterAttr:            "OUTER_ATTR",
	InnerAttr:            "INNER_ATTR",
	MetaItem:             "META_ITEM",
	MetaItemArgs:         "META_ITEM_ARGS",
	Path:                 "PATH",
	LitExpr:              "LIT_EXPR",
	StructItem:           "STRUCT_ITEM",
	EnumItem:             "ENUM_ITEM",
	EnumBody:             "ENUM_BODY",
	EnumVariant:          "ENUM_VARIANT",
	Function:             "FUNCTION",
	ModItem:              "MOD_ITEM",
	ModDeclItem:          "MOD_DECL_ITEM",
	Constant:             "CONSTANT",
	Macro:                "MACRO",
	MacroCall:            "MACRO_CALL",
	IncludeMacroArgument: "INCLUDE_MACRO_ARGUMENT",
	TraitItem:            "TRAIT_ITEM",
	ImplItem:             "IMPL_ITEM",
	TraitRef:             "TRAIT_REF",
	Members:              "MEMBERS",
	ForeignModItem:       "FOREIGN_MOD_ITEM",
	ExternCrateItem:      "EXTERN_CRATE_ITEM",
	UseItem:              "USE_ITEM",
	UseSpeck:             "USE_SPECK",
	TupleFields:          "TUPLE_FIELDS",
	BlockFields:          "BLOCK_FIELDS",
	Block:                "BLOCK",
	ExprStmt:             "EXPR_STMT",
	LetDecl:              "LET_DECL",
	ForExpr:              "FOR_EXPR",
	LoopExpr:             "LOOP_EXPR",
	WhileExpr:            "WHILE_EXPR",
	LambdaExpr:           "LAMBDA_EXPR",
	TokenTree:            "TOKEN_TREE",
	Other:                "OTHER",
}

func (k Kind) String() string {
	if k < kindCount {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// IsLeaf reports whether k is a token kind.
func (k Kind) IsLeaf() bool {
	return k > Invalid && k < File
}

// IsComment reports whether k is a line or block comment.
func (k Kind) IsComment() bool {
	return k == LineComment || k == BlockComment
}

// IsItem reports whether k is a declaration that can own outer attributes.
func (k Kind) IsItem() bool {
	switch k {
	case StructItem, EnumItem, EnumVariant, Function, ModItem, ModDeclItem,
		Constant, Macro, TraitItem, ImplItem, ForeignModItem, ExternCrateItem,
		UseItem, MacroCall:
		return true
	}
	return false
}

// IsAttributeOwner reports whether nodes of kind k carry attributes, that is
// every item plus the file itself.
func (k Kind) IsAttributeOwner() bool {
	return k == File || k.IsItem()
}

// KindSet is a fixed set of kinds.
type KindSet uint64

// NewKindSet returns the set containing kinds.
func NewKindSet(kinds ...Kind) KindSet {
	var s KindSet
	for _, k := range kinds {
		s |= 1 << k
	}
	return s
}

// Contains reports whether k is in s.
func (s KindSet) Contains(k Kind) bool {
	return k < kindCount && s&(1<<k) != 0
}

package importfacts

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/Sumatoshi-tech/deptrim/pkg/depmodel"
)

const (
	kwImport    = "import"
	kwQualified = "qualified"
	kwSafe      = "safe"
	kwAs        = "as"
	kwHiding    = "hiding"
)

// ParseError reports a summary file that is not a valid list of imports.
type ParseError struct {
	File string
	Line int
	Msg  string
}

func (e *ParseError) Error() string {
	if e.File == "" {
		return fmt.Sprintf("line %d: %s", e.Line, e.Msg)
	}

	return fmt.Sprintf("%s:%d: %s", e.File, e.Line, e.Msg)
}

type parser struct {
	lx       *lexer
	tok      token
	importer depmodel.ModuleName
}

// Parse reads the import declarations of the summary written for module.
func Parse(module depmodel.ModuleName, src string) ([]depmodel.ImportFact, error) {
	p := &parser{lx: newLexer(src), importer: module}

	if err := p.advance(); err != nil {
		return nil, err
	}

	var facts []depmodel.ImportFact

	for p.tok.kind != tokEOF {
		fact, err := p.declaration()
		if err != nil {
			return nil, err
		}

		facts = append(facts, fact)
	}

	return facts, nil
}

func (p *parser) advance() error {
	tok, err := p.lx.next()
	if err != nil {
		var le *lexError
		if errors.As(err, &le) {
			return &ParseError{Line: le.line, Msg: le.msg}
		}

		return err
	}

	p.tok = tok

	return nil
}

func (p *parser) errorf(format string, args ...any) error {
	return &ParseError{Line: p.tok.line, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) isKeyword(kw string) bool {
	return p.tok.kind == tokIdent && p.tok.text == kw
}

func (p *parser) declaration() (depmodel.ImportFact, error) {
	if !p.isKeyword(kwImport) {
		return depmodel.ImportFact{}, p.errorf("expected import declaration, found %q", p.tok.text)
	}

	fact := depmodel.ImportFact{Importer: p.importer, Line: p.tok.line}

	if err := p.advance(); err != nil {
		return fact, err
	}

	for p.tok.kind == tokPragma {
		if err := p.advance(); err != nil {
			return fact, err
		}
	}

	if p.isKeyword(kwSafe) {
		if err := p.advance(); err != nil {
			return fact, err
		}
	}

	if p.isKeyword(kwQualified) {
		fact.Qualified = true

		if err := p.advance(); err != nil {
			return fact, err
		}
	}

	if p.tok.kind == tokString {
		if err := p.advance(); err != nil {
			return fact, err
		}
	}

	name, err := p.moduleName()
	if err != nil {
		return fact, err
	}

	fact.Imported = name

	if err := p.modifiers(&fact); err != nil {
		return fact, err
	}

	if p.tok.kind == tokOpen {
		specs, err := p.specifierList()
		if err != nil {
			return fact, err
		}

		fact.Specifiers = specs
	} else {
		if fact.Hiding {
			return fact, &ParseError{Line: fact.Line, Msg: "hiding without an import list"}
		}

		fact.Everything = true
	}

	if p.tok.kind != tokEOF && !p.isKeyword(kwImport) {
		return fact, p.errorf("unexpected %q after import of %s", p.tok.text, fact.Imported)
	}

	return fact, nil
}

// modifiers handles a postpositive qualified, an alias and hiding.
func (p *parser) modifiers(fact *depmodel.ImportFact) error {
	if p.isKeyword(kwQualified) {
		fact.Qualified = true

		if err := p.advance(); err != nil {
			return err
		}
	}

	if p.isKeyword(kwAs) {
		if err := p.advance(); err != nil {
			return err
		}

		alias, err := p.moduleName()
		if err != nil {
			return err
		}

		fact.Alias = alias
	}

	if p.isKeyword(kwHiding) {
		fact.Hiding = true

		return p.advance()
	}

	return nil
}

func (p *parser) moduleName() (depmodel.ModuleName, error) {
	if p.tok.kind != tokIdent || !ValidModuleName(p.tok.text) {
		return "", p.errorf("expected module name, found %q", p.tok.text)
	}

	name := depmodel.ModuleName(p.tok.text)

	return name, p.advance()
}

// specifierList parses "( item, item, ... )" where items may nest parentheses.
func (p *parser) specifierList() ([]string, error) {
	openLine := p.tok.line

	if err := p.advance(); err != nil {
		return nil, err
	}

	var (
		specs []string
		item  strings.Builder
		prev  tokenKind
		depth int
	)

	flush := func() {
		if item.Len() > 0 {
			specs = append(specs, item.String())
		}

		item.Reset()

		prev = tokEOF
	}

	for {
		switch p.tok.kind {
		case tokEOF:
			return nil, &ParseError{Line: openLine, Msg: "unterminated import list"}
		case tokClose:
			if depth == 0 {
				flush()

				return specs, p.advance()
			}

			depth--
		case tokOpen:
			depth++
		case tokComma:
			if depth == 0 {
				flush()

				if err := p.advance(); err != nil {
					return nil, err
				}

				continue
			}
		}

		if prev == tokIdent && p.tok.kind == tokIdent {
			item.WriteByte(' ')
		}

		item.WriteString(p.tok.text)
		prev = p.tok.kind

		if err := p.advance(); err != nil {
			return nil, err
		}
	}
}

// ValidModuleName reports whether s is a dotted sequence of constructor names.
func ValidModuleName(s string) bool {
	if s == "" {
		return false
	}

	for seg := range strings.SplitSeq(s, ".") {
		if seg == "" {
			return false
		}

		for i, r := range seg {
			if i == 0 && !unicode.IsUpper(r) {
				return false
			}

			if !isIdentRune(r) {
				return false
			}
		}
	}

	return true
}

// Package dub parses the command lines of the REPL. A command is a name
// followed by arguments, which are identifiers, numbers, quoted strings,
// comma separated lists of numbers, or name:value pairs.
package dub

import (
	"fmt"
	"strconv"
)

type Node interface {
	isNode()
}

func (Identifier) isNode() {}
func (Int) isNode()        {}
func (Float) isNode()      {}
func (String) isNode()     {}
func (List) isNode()       {}
func (Pair) isNode()       {}

type Command struct {
	Name Identifier
	Args []Node
}

type Identifier string
type Int int
type Float float64
type String string

// List is a comma separated list of numbers, like 60,64,67.
type List []float64

// Pair is a name:value argument, like vibratoRate:6.
type Pair struct {
	Name  Identifier
	Value float64
}

func Parse(input string) (Command, error) {
	tokens, err := lex(input)
	if err != nil {
		return Command{}, err
	}
	p := parser{tokens: tokens}
	return p.parse()
}

type parser struct {
	pos    int
	tokens []token
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	if t.typ != typeEOF {
		p.pos++
	}
	return t
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) parse() (Command, error) {
	var cmd Command
	token := p.next()
	if token.typ != typeIdentifier {
		return cmd, unexpected(token)
	}
	cmd.Name = Identifier(token.text)
	for token := p.next(); token.typ != typeEOF; token = p.next() {
		var arg Node
		switch token.typ {
		case typeIdentifier:
			if p.peek().typ != typeColon {
				arg = Identifier(token.text)
				break
			}
			p.next()
			v, err := p.number(p.next())
			if err != nil {
				return cmd, err
			}
			arg = Pair{Name: Identifier(token.text), Value: v}
		case typeString:
			s, err := strconv.Unquote(token.text)
			if err != nil {
				return cmd, fmt.Errorf("invalid string %s: %w", token.text, err)
			}
			arg = String(s)
		case typeFloat, typeInt:
			if p.peek().typ == typeComma {
				list, err := p.list(token)
				if err != nil {
					return cmd, err
				}
				arg = list
				break
			}
			n, err := p.scalar(token)
			if err != nil {
				return cmd, err
			}
			arg = n
		default:
			return cmd, unexpected(token)
		}
		cmd.Args = append(cmd.Args, arg)
	}
	return cmd, nil
}

func (p *parser) scalar(t token) (Node, error) {
	if t.typ == typeInt {
		n, err := strconv.Atoi(t.text)
		if err != nil {
			return nil, err
		}
		return Int(n), nil
	}
	f, err := strconv.ParseFloat(t.text, 64)
	if err != nil {
		return nil, err
	}
	return Float(f), nil
}

func (p *parser) number(t token) (float64, error) {
	if t.typ != typeInt && t.typ != typeFloat {
		return 0, unexpected(t)
	}
	return strconv.ParseFloat(t.text, 64)
}

func (p *parser) list(start token) (List, error) {
	var list List
	for t := start; ; t = p.next() {
		v, err := p.number(t)
		if err != nil {
			return list, err
		}
		list = append(list, v)
		if p.peek().typ != typeComma {
			return list, nil
		}
		p.next()
	}
}

func unexpected(t token) error {
	if t.typ == typeEOF {
		return fmt.Errorf("unexpected end of input")
	}
	return fmt.Errorf("unexpected %v %q at position %d", t.typ, t.text, t.pos)
}

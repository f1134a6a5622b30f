package predicate

import (
	"fmt"
	"strings"
)

// ToSQL compiles a parsed condition into a SQL boolean expression over
// the runs table (alias "r") joined with dataset_examples (alias "e").
// Literal values are returned as positional args, never interpolated.
func ToSQL(expr Expr) (string, []any, error) {
	var sb strings.Builder
	var args []any
	if err := writeSQL(&sb, &args, expr); err != nil {
		return "", nil, err
	}
	return sb.String(), args, nil
}

func writeSQL(sb *strings.Builder, args *[]any, expr Expr) error {
	switch e := expr.(type) {
	case Logical:
		sb.WriteString("(")
		if err := writeSQL(sb, args, e.Left); err != nil {
			return err
		}
		switch e.Op {
		case "and":
			sb.WriteString(" AND ")
		case "or":
			sb.WriteString(" OR ")
		default:
			return fmt.Errorf("unknown logical operator %q", e.Op)
		}
		if err := writeSQL(sb, args, e.Right); err != nil {
			return err
		}
		sb.WriteString(")")
		return nil

	case Not:
		sb.WriteString("NOT (")
		if err := writeSQL(sb, args, e.Expr); err != nil {
			return err
		}
		sb.WriteString(")")
		return nil

	case Compare:
		if err := writeOperand(sb, args, e.Left); err != nil {
			return err
		}
		op := e.Op
		if op == "==" {
			op = "="
		}
		fmt.Fprintf(sb, " %s ", op)
		return writeOperand(sb, args, e.Right)

	case Contains:
		f, ok := FieldByName(e.Field)
		if !ok {
			return fmt.Errorf("unknown field %q", e.Field)
		}
		if e.Negated {
			fmt.Fprintf(sb, "instr(COALESCE(%s, ''), ?) = 0", f.Column)
		} else {
			fmt.Fprintf(sb, "instr(COALESCE(%s, ''), ?) > 0", f.Column)
		}
		*args = append(*args, e.Value)
		return nil

	case IsNone:
		f, ok := FieldByName(e.Field)
		if !ok {
			return fmt.Errorf("unknown field %q", e.Field)
		}
		if e.Negated {
			fmt.Fprintf(sb, "%s IS NOT NULL", f.Column)
		} else {
			fmt.Fprintf(sb, "%s IS NULL", f.Column)
		}
		return nil

	default:
		return fmt.Errorf("unknown expression node %T", expr)
	}
}

func writeOperand(sb *strings.Builder, args *[]any, o Operand) error {
	if o.isField() {
		f, ok := FieldByName(o.Field)
		if !ok {
			return fmt.Errorf("unknown field %q", o.Field)
		}
		sb.WriteString(f.Column)
		return nil
	}
	sb.WriteString("?")
	if o.Num != nil {
		*args = append(*args, *o.Num)
	} else if o.Str != nil {
		*args = append(*args, *o.Str)
	} else {
		return fmt.Errorf("operand has no value")
	}
	return nil
}

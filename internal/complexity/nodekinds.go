package complexity

import "codesnap/internal/parsers"

// GetFunctionNodeTypes returns the AST node kinds that represent functions for a language.
func GetFunctionNodeTypes(lang Language) []string {
	switch lang {
	case LangGo:
		return []string{"function_declaration", "method_declaration", "func_literal"}
	case LangJavaScript, LangTypeScript, LangTSX:
		return []string{"function_declaration", "function_expression", "arrow_function", "method_definition", "generator_function_declaration"}
	case LangPython:
		return []string{"function_definition", "lambda"}
	default:
		return nil
	}
}

// GetDecisionNodeTypes returns the node kinds that contribute to cyclomatic complexity.
func GetDecisionNodeTypes(lang Language) []string {
	switch lang {
	case LangGo:
		return []string{
			"if_statement",
			"for_statement",
			"range_clause",
			"expression_case",    // case in switch
			"type_case",          // case in type switch
			"select_statement",   // select with cases
			"communication_case", // case in select
			"binary_expression",  // for && and ||
		}
	case LangJavaScript, LangTypeScript, LangTSX:
		return []string{
			"if_statement",
			"for_statement",
			"for_in_statement",
			"while_statement",
			"do_statement",
			"switch_case",
			"catch_clause",
			"ternary_expression",
			"binary_expression", // for && and ||
			"optional_chain_expression",
		}
	case LangPython:
		return []string{
			"if_statement",
			"elif_clause",
			"for_statement",
			"while_statement",
			"except_clause",
			"with_statement",
			"boolean_operator",         // and, or
			"conditional_expression",   // ternary
			"list_comprehension",       // for clause
			"dictionary_comprehension", // for clause
			"set_comprehension",        // for clause
			"generator_expression",     // for clause
		}
	default:
		return nil
	}
}

// GetNestingNodeTypes returns node kinds that increase nesting depth for cognitive complexity.
func GetNestingNodeTypes(lang Language) []string {
	switch lang {
	case LangGo:
		return []string{
			"if_statement",
			"for_statement",
			"select_statement",
			"type_switch_statement",
			"expression_switch_statement",
			"func_literal", // nested functions
		}
	case LangJavaScript, LangTypeScript, LangTSX:
		return []string{
			"if_statement",
			"for_statement",
			"for_in_statement",
			"while_statement",
			"do_statement",
			"switch_statement",
			"try_statement",
			"arrow_function",
			"function_expression",
		}
	case LangPython:
		return []string{
			"if_statement",
			"for_statement",
			"while_statement",
			"try_statement",
			"with_statement",
			"lambda",
			"list_comprehension",
			"dictionary_comprehension",
			"set_comprehension",
			"generator_expression",
		}
	default:
		return nil
	}
}

// nameNodeKinds are the node kinds treated as a declaration's name token
// when scanning a function node's immediate children. There is no field-
// name information on the generic parsers.Node the registry hands back,
// so the name is approximated as the first identifier-shaped child
// instead of a named "name" field.
var nameNodeKinds = map[string]bool{
	"identifier":          true,
	"property_identifier": true,
	"field_identifier":    true,
	"type_identifier":     true,
}

// functionName returns the first identifier-shaped child of node, or
// "<anonymous>" if node has none (arrow functions, lambdas, closures).
func functionName(node parsers.Node) string {
	for _, child := range node.Children {
		if nameNodeKinds[child.Kind] {
			return child.Text
		}
	}
	return "<anonymous>"
}

// IsBooleanOperator reports whether a binary_expression/boolean_operator
// node's operator child is a logical && / || (or Python's and/or).
func IsBooleanOperator(node parsers.Node, lang Language) bool {
	if node.Kind != "binary_expression" && node.Kind != "boolean_operator" {
		return false
	}
	for _, child := range node.Children {
		if lang == LangPython {
			if child.Kind == "and" || child.Kind == "or" {
				return true
			}
			continue
		}
		if child.Text == "&&" || child.Text == "||" {
			return true
		}
	}
	return false
}

// contains checks if a slice contains a string.
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}

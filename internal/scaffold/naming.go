package scaffold

import (
	"regexp"
	"strings"
)

var classNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsValidEntityName reports whether name can be used as a class name.
// Discovery skips files whose base name is not one ("helpers.inc", "my model").
func IsValidEntityName(name string) bool {
	return classNamePattern.MatchString(name)
}

// NormalizeNamespace turns a directory-like namespace into a class namespace:
// "/" becomes "\" and every segment is capitalised ("app/contracts" → "App\Contracts").
// Surrounding separators are dropped.
func NormalizeNamespace(ns string) string {
	ns = strings.ReplaceAll(strings.TrimSpace(ns), "/", `\`)
	ns = strings.Trim(ns, `\`)
	if ns == "" {
		return ""
	}
	parts := strings.Split(ns, `\`)
	for i, p := range parts {
		parts[i] = capitalize(p)
	}
	return strings.Join(parts, `\`)
}

// QualifiedClass joins a namespace and a class name.
func QualifiedClass(namespace, class string) string {
	namespace = strings.Trim(namespace, `\`)
	if namespace == "" {
		return class
	}
	return namespace + `\` + class
}

// UseStatement renders an import line for fqcn, or "" when fqcn is empty.
func UseStatement(fqcn string) string {
	fqcn = strings.Trim(strings.TrimSpace(fqcn), `\`)
	if fqcn == "" {
		return ""
	}
	return "use " + fqcn + ";"
}

// ModelVariable returns the variable name generated code uses for an entity:
// the lower-cased entity name ("InvoiceItem" → "invoiceitem").
func ModelVariable(entityName string) string {
	return strings.ToLower(entityName)
}

// TrimExtension strips ext from the end of name, if present.
func TrimExtension(name, ext string) string {
	if ext != "" && strings.HasSuffix(name, ext) {
		return name[:len(name)-len(ext)]
	}
	return name
}

// capitalize returns the string with the first letter uppercased.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

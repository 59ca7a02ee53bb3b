package report

import (
	"maps"
	"slices"
)

// Terminals maps grammar terminal names to the human-readable description
// shown in "Expecting:" lists.
var Terminals = map[string]string{
	"ID":                     "reference identifier (e.g., NG_012337.1)",
	"ACCESSION":              "accession (e.g., NG_012337)",
	"VERSION":                "version (e.g., '1')",
	"GENE_NAME":              "gene name (e.g., SDHD)",
	"GENBANK_LOCUS_SELECTOR": "genbank locus selector (e.g., v001, i001)",
	"LRG_LOCUS":              "lrg specific locus (e.g., p1, t1)",
	"COORDINATE_SYSTEM":      "a coordinate system: 'g', 'o', 'm', 'c', 'n', 'r', or 'p'",
	"POSITION":               "position (e.g., 100)",
	"OFFSET":                 "position offset ('-' or '+')",
	"OUTSIDE_CDS":            "'*' or '-' for an outside CDS location",
	"DOT":                    "'.' between the coordinate system and the operation(s)",
	"COLON":                  "':' between the reference part and the coordinate system",
	"UNDERSCORE":             "'_' between start and end in range or uncertain positions",
	"LPAR":                   "'(' for an uncertainty start",
	"RPAR":                   "')' for an uncertainty end",
	"SEMICOLON":              "';' to separate variants",
	"LSQB":                   "'[' for multiple variants, insertions, or repeats",
	"RSQB":                   "']' for multiple variants, insertions, or repeats",
	"DEL":                    "deletion operation (e.g., 10del)",
	"DUP":                    "duplication operation (e.g., 10dup)",
	"INS":                    "insertion operation (e.g., 11_12insTA, ins10_20)",
	"CON":                    "conversion operation (e.g., 10_12con20_22)",
	"EQUAL":                  "'=' to indicate no changes",
	"DELETED":                "deleted nucleotide in a substitution operation",
	"INSERTED":               "inserted nucleotide in a substitution operation",
	"DELETED_SEQUENCE":       "deleted sequence (e.g., ATG)",
	"DELETED_LENGTH":         "deleted length (e.g., 50)",
	"DUPLICATED_SEQUENCE":    "duplicated sequence (e.g., 'A')",
	"DUPLICATED_LENGTH":      "duplicated length (e.g., 50)",
	"INVERTED":               "inv",
	"INSERTED_SEQUENCE":      "inserted sequence",
	"MORETHAN":               "'>' in a substitution operation",
	"SEQUENCE":               "sequence (e.g., ATG)",
	"REPEAT_LENGTH":          "repeat length (e.g., 50)",
	"NT":                     "nucleotide, (e.g., 'A')",
	"NAME":                   "name",
	"LETTER":                 "a letter",
	"DIGIT":                  "a digit",
	"NUMBER":                 "a number (to indicate a location or a length)",
	"LCASE_LETTER":           "lower case letter",
	"UCASE_LETTER":           "upper case letter",
	"UNKNOWN":                "?",
}

// Expecting resolves terminal names through the Terminals table, keeping the
// raw name for anything untabulated. Order follows the input.
func Expecting(terminals []string) []string {
	out := make([]string, 0, len(terminals))
	for _, t := range terminals {
		if d, ok := Terminals[t]; ok && d != "" {
			out = append(out, d)
		} else {
			out = append(out, t)
		}
	}
	return out
}

// TerminalNames returns the tabulated terminal names in sorted order.
func TerminalNames() []string {
	return slices.Sorted(maps.Keys(Terminals))
}

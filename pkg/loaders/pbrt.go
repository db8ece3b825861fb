package loaders

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/df07/go-translucent/pkg/core"
)

// PBRTStatement represents a parsed PBRT statement
type PBRTStatement struct {
	Type       string               // Statement type (Material, Texture, MakeNamedMaterial)
	Subtype    string               // First quoted string (material class, texture name)
	Args       []string             // Further bare quoted strings, e.g. a texture's type and class
	Parameters map[string]PBRTParam // Named parameters
	Line       int                  // Line on which the statement starts
}

// PBRTParam represents a parameter with type and value(s)
type PBRTParam struct {
	Type   string   // Parameter type (float, rgb, string, texture, ...)
	Values []string // Parameter values as strings, quotes removed
}

// PBRTScene contains the material and texture declarations of a PBRT file
type PBRTScene struct {
	Textures  []PBRTStatement
	Materials []PBRTStatement // Material and MakeNamedMaterial, in file order
}

// PBRTParser encapsulates the state and logic for parsing PBRT files
type PBRTParser struct {
	scene          *PBRTScene
	depth          int // AttributeBegin nesting
	inWorld        bool
	lineNumber     int
	statementStart int
	statementLines []string
}

// ParsePBRT parses PBRT content from an io.Reader
func ParsePBRT(reader io.Reader) (*PBRTScene, error) {
	parser := NewPBRTParser()

	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		if err := parser.processLine(scanner.Text()); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading input: %w", err)
	}

	// Process any remaining accumulated statements
	if err := parser.finalize(); err != nil {
		return nil, err
	}
	return parser.scene, nil
}

// LoadPBRT loads and parses a PBRT scene file
func LoadPBRT(filename string) (*PBRTScene, error) {
	if err := validateFilePath(filename); err != nil {
		return nil, err
	}

	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open PBRT file: %w", err)
	}
	defer file.Close()

	return ParsePBRT(file)
}

// NewPBRTParser creates a new PBRT parser instance
func NewPBRTParser() *PBRTParser {
	return &PBRTParser{
		scene: &PBRTScene{
			Textures:  make([]PBRTStatement, 0),
			Materials: make([]PBRTStatement, 0),
		},
	}
}

// processAccumulatedStatement processes any accumulated statement lines and clears them
func (p *PBRTParser) processAccumulatedStatement(context string) error {
	if len(p.statementLines) == 0 {
		return nil
	}
	fullStatement := strings.Join(p.statementLines, " ")
	p.statementLines = nil

	// Geometry, lights and cameras are not needed to configure materials
	if !keepsStatement(strings.Fields(fullStatement)[0]) {
		return nil
	}

	stmt, err := parseStatement(fullStatement)
	if err != nil {
		return fmt.Errorf("line %d: error parsing statement %s '%s': %w", p.statementStart, context, fullStatement, err)
	}
	if !p.inWorld {
		return fmt.Errorf("line %d: %s must appear between WorldBegin and WorldEnd", p.statementStart, stmt.Type)
	}
	stmt.Line = p.statementStart
	p.routeStatement(stmt)
	return nil
}

// processLine processes a single line of PBRT input
func (p *PBRTParser) processLine(line string) error {
	p.lineNumber++
	line = strings.TrimSpace(line)

	// Skip empty lines and comments
	if line == "" || strings.HasPrefix(line, "#") {
		return nil
	}

	// Block directives close any pending statement
	switch line {
	case "WorldBegin", "WorldEnd", "AttributeBegin", "AttributeEnd":
		if err := p.processAccumulatedStatement("before " + line); err != nil {
			return err
		}
		return p.processDirective(line)
	}

	if isStatementStart(line) {
		if err := p.processAccumulatedStatement(""); err != nil {
			return err
		}
		p.statementStart = p.lineNumber
		p.statementLines = []string{line}
		return nil
	}

	// Continue previous statement
	if len(p.statementLines) == 0 {
		return fmt.Errorf("line %d: unexpected continuation line: %s", p.lineNumber, line)
	}
	p.statementLines = append(p.statementLines, line)
	return nil
}

func (p *PBRTParser) processDirective(directive string) error {
	switch directive {
	case "WorldBegin":
		p.inWorld = true
	case "WorldEnd":
		p.inWorld = false
	case "AttributeBegin":
		p.depth++
	case "AttributeEnd":
		if p.depth == 0 {
			return fmt.Errorf("line %d: AttributeEnd without matching AttributeBegin", p.lineNumber)
		}
		p.depth--
	}
	return nil
}

// finalize processes any remaining accumulated statements
func (p *PBRTParser) finalize() error {
	if err := p.processAccumulatedStatement("at end of file"); err != nil {
		return err
	}
	if p.depth != 0 {
		return fmt.Errorf("unterminated AttributeBegin block")
	}
	return nil
}

// routeStatement files a parsed statement under its section of the scene
func (p *PBRTParser) routeStatement(stmt *PBRTStatement) {
	switch stmt.Type {
	case "Texture":
		p.scene.Textures = append(p.scene.Textures, *stmt)
	case "Material", "MakeNamedMaterial":
		p.scene.Materials = append(p.scene.Materials, *stmt)
	}
}

func keepsStatement(statementType string) bool {
	switch statementType {
	case "Texture", "Material", "MakeNamedMaterial":
		return true
	}
	return false
}

// validateFilePath validates a file path for security issues
func validateFilePath(filename string) error {
	if filename == "" {
		return fmt.Errorf("filename cannot be empty")
	}

	// Check for null bytes (could indicate path manipulation)
	if strings.Contains(filename, "\x00") {
		return fmt.Errorf("invalid file path: null bytes not allowed")
	}

	// Clean the path to resolve . and .. components
	cleanPath := filepath.Clean(filename)

	// Only allow files in scenes/ directory or temp directory (for tests)
	if !strings.HasPrefix(cleanPath, "scenes/") &&
		!strings.HasPrefix(cleanPath, os.TempDir()) &&
		!strings.Contains(cleanPath, "scenes/") {
		return fmt.Errorf("file path must be in scenes/ directory")
	}

	if !strings.HasSuffix(strings.ToLower(cleanPath), ".pbrt") {
		return fmt.Errorf("invalid file type: only .pbrt files are allowed")
	}

	if len(cleanPath) > 512 {
		return fmt.Errorf("file path too long: maximum 512 characters allowed")
	}

	return nil
}

// tokenizePBRT tokenizes a PBRT line respecting quoted strings and brackets
func tokenizePBRT(line string) []string {
	var tokens []string
	var current strings.Builder
	inQuotes := false
	inBrackets := false

	for _, char := range line {
		switch char {
		case '"':
			current.WriteRune(char)
			if inBrackets {
				continue
			}
			if inQuotes {
				// End of quoted string
				tokens = append(tokens, current.String())
				current.Reset()
			}
			inQuotes = !inQuotes
		case '[':
			if !inQuotes {
				if current.Len() > 0 {
					tokens = append(tokens, current.String())
					current.Reset()
				}
				inBrackets = true
			}
			current.WriteRune(char)
		case ']':
			current.WriteRune(char)
			if !inQuotes && inBrackets {
				tokens = append(tokens, current.String())
				current.Reset()
				inBrackets = false
			}
		case ' ', '\t':
			if inQuotes || inBrackets {
				current.WriteRune(char)
			} else if current.Len() > 0 {
				tokens = append(tokens, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(char)
		}
	}

	if current.Len() > 0 {
		tokens = append(tokens, current.String())
	}
	return tokens
}

// splitValues splits the inside of a bracketed array on whitespace, keeping quoted strings
// (which may contain spaces) together and removing their quotes.
func splitValues(s string) []string {
	var values []string
	var current strings.Builder
	inQuotes := false
	quoted := false

	flush := func() {
		if current.Len() > 0 || quoted {
			values = append(values, current.String())
		}
		current.Reset()
		quoted = false
	}

	for _, char := range s {
		switch {
		case char == '"':
			if inQuotes {
				flush()
			} else {
				quoted = true
			}
			inQuotes = !inQuotes
		case (char == ' ' || char == '\t') && !inQuotes:
			flush()
		default:
			current.WriteRune(char)
		}
	}
	flush()
	return values
}

func isQuoted(token string) bool {
	return len(token) >= 2 && strings.HasPrefix(token, "\"") && strings.HasSuffix(token, "\"")
}

// parseStatement parses a single PBRT statement: Type "subtype" ["arg" ...] "type name" value ...
func parseStatement(line string) (*PBRTStatement, error) {
	parts := tokenizePBRT(line)
	if len(parts) < 2 {
		return nil, fmt.Errorf("invalid statement format")
	}

	stmt := &PBRTStatement{
		Type:       parts[0],
		Parameters: make(map[string]PBRTParam),
	}

	if !isQuoted(parts[1]) {
		return nil, fmt.Errorf("expected quoted name after %s", stmt.Type)
	}
	stmt.Subtype = strings.Trim(parts[1], "\"")
	parts = parts[2:]

	i := 0
	for i < len(parts) {
		if !isQuoted(parts[i]) {
			return nil, fmt.Errorf("unexpected value %s", parts[i])
		}

		// A single word is a positional argument; "type name" starts a parameter
		paramDef := strings.Fields(strings.Trim(parts[i], "\""))
		i++
		if len(paramDef) != 2 {
			stmt.Args = append(stmt.Args, strings.Join(paramDef, " "))
			continue
		}

		paramType, paramName := paramDef[0], paramDef[1]
		if i >= len(parts) {
			return nil, fmt.Errorf("parameter %q has no value", paramName)
		}

		var values []string
		if strings.HasPrefix(parts[i], "[") && strings.HasSuffix(parts[i], "]") {
			values = splitValues(strings.Trim(parts[i], "[]"))
		} else {
			values = splitValues(parts[i])
		}
		i++

		stmt.Parameters[paramName] = PBRTParam{
			Type:   paramType,
			Values: values,
		}
	}

	return stmt, nil
}

// GetFloatParam extracts a float parameter from a PBRT statement
func (stmt *PBRTStatement) GetFloatParam(name string) (float64, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return 0, false
	}
	val, err := strconv.ParseFloat(param.Values[0], 64)
	if err != nil {
		return 0, false
	}
	return val, true
}

// GetRGBParam extracts an RGB color parameter from a PBRT statement
func (stmt *PBRTStatement) GetRGBParam(name string) (*core.Vec3, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) < 3 {
		return nil, false
	}
	r, err1 := strconv.ParseFloat(param.Values[0], 64)
	g, err2 := strconv.ParseFloat(param.Values[1], 64)
	b, err3 := strconv.ParseFloat(param.Values[2], 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, false
	}
	return &core.Vec3{X: r, Y: g, Z: b}, true
}

// GetStringParam extracts a string parameter from a PBRT statement
func (stmt *PBRTStatement) GetStringParam(name string) (string, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return "", false
	}
	return param.Values[0], true
}

// GetBoolParam extracts a bool parameter ("true" or "false") from a PBRT statement
func (stmt *PBRTStatement) GetBoolParam(name string) (bool, bool) {
	param, exists := stmt.Parameters[name]
	if !exists || len(param.Values) == 0 {
		return false, false
	}
	val, err := strconv.ParseBool(param.Values[0])
	if err != nil {
		return false, false
	}
	return val, true
}

// isStatementStart determines if a line starts a new PBRT statement
func isStatementStart(line string) bool {
	statementTypes := []string{
		"Camera", "Film", "Sampler", "Integrator", "LookAt",
		"Material", "MakeNamedMaterial", "NamedMaterial", "Texture",
		"Shape", "LightSource", "AreaLightSource",
		"Translate", "Rotate", "Scale", "Transform",
		"ReverseOrientation", "Attribute",
	}

	for _, stmt := range statementTypes {
		if strings.HasPrefix(line, stmt+" ") || line == stmt {
			return true
		}
	}
	return false
}

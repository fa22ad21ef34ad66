package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"

	"github.com/roach88/vaultsdk/internal/catalog"
	"github.com/roach88/vaultsdk/internal/compiler"
	"github.com/roach88/vaultsdk/internal/types"
)

// LoadResult contains the contract types loaded from a directory.
type LoadResult struct {
	Declared  []types.Describer
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// Items returns the declared types as registry items.
func (r *LoadResult) Items() []any {
	if r == nil {
		return nil
	}
	items := make([]any, 0, len(r.Declared))
	for _, d := range r.Declared {
		items = append(items, d)
	}
	return items
}

// LoadError represents an error that occurred during spec loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadSpecs loads and compiles the record and enum declarations of the CUE
// files in dir.
func LoadSpecs(dir string) (*LoadResult, error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("specs directory not found: %s", dir)}
	}
	if err != nil {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing specs directory: %v", err)}
	}
	if !info.IsDir() {
		return nil, &LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}
	}

	cueFiles, err := FindFiles(dir, ".cue")
	if err != nil {
		return nil, &LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}
	}
	if len(cueFiles) == 0 {
		return nil, &LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, &LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, &LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}
	}

	declared, err := compiler.CompileTypes(value)
	if err != nil {
		return nil, convertCompileError(err)
	}
	if len(declared) == 0 {
		return nil, &LoadError{Code: ErrCodeGeneric, Message: "no records or enums found in specs"}
	}

	return &LoadResult{
		Declared:  declared,
		CUEValue:  value,
		FileCount: len(cueFiles),
	}, nil
}

// LoadRegistry returns the catalog registry, extended with the types
// declared in dir when dir is not empty.
func LoadRegistry(dir string, opts ...types.RegistryOption) (*types.Registry, *LoadResult, error) {
	var loaded *LoadResult
	if dir != "" {
		var err error
		loaded, err = LoadSpecs(dir)
		if err != nil {
			return nil, nil, err
		}
	}
	reg, err := catalog.NewRegistry(loaded.Items(), opts...)
	if err != nil {
		return nil, nil, &LoadError{Code: ErrCodeGeneric, Message: err.Error()}
	}
	return reg, loaded, nil
}

// FindFiles walks the directory and returns the paths with one of exts,
// sorted.
func FindFiles(dir string, exts ...string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() && slices.Contains(exts, filepath.Ext(path)) {
			files = append(files, path)
		}
		return nil
	})
	slices.Sort(files)
	return files, err
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: fmt.Sprintf("%s: %s", compileErr.Field, compileErr.Message),
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: err.Error(),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric     = "E001" // Generic/unknown error
	ErrCodeScanError   = "E002" // Directory scan error
	ErrCodeNoFiles     = "E003" // No CUE files found
	ErrCodeLoadFailed  = "E004" // CUE load failed
	ErrCodeNotFound    = "E005" // Path not found
	ErrCodeBuildFailed = "E006" // CUE build failed
	ErrCodeWriteFailed = "E007" // Journal write error

	// Declaration errors
	ErrCodeRecordAttributes = "E010" // Record attributes missing or malformed
	ErrCodeEnumMembers      = "E011" // Enum members missing or malformed
	ErrCodeCUESyntax        = "E012" // CUE evaluation error inside a declaration

	// Value errors
	ErrCodeInvalidValue = "E020" // --value is not valid JSON
	ErrCodeTypeMismatch = "E021" // value does not conform to the type
)

// MapFieldToErrorCode maps a compiler error field to an error code.
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "attributes", strings.HasPrefix(field, "attributes."):
		return ErrCodeRecordAttributes
	case field == "members", strings.HasPrefix(field, "members."):
		return ErrCodeEnumMembers
	case field == "cue":
		return ErrCodeCUESyntax
	default:
		return ErrCodeGeneric
	}
}

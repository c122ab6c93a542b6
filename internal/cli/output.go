package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// OutputFormatter handles three output modes: JSON, quiet, and human-readable
type OutputFormatter struct {
	JSON  bool
	Quiet bool

	// Out and ErrOut default to os.Stdout and os.Stderr
	Out    io.Writer
	ErrOut io.Writer
}

// NewFormatter creates a formatter writing to the given streams
func NewFormatter(jsonOutput, quiet bool, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{JSON: jsonOutput, Quiet: quiet, Out: out, ErrOut: errOut}
}

func (f *OutputFormatter) out() io.Writer {
	if f.Out == nil {
		return os.Stdout
	}
	return f.Out
}

func (f *OutputFormatter) errOut() io.Writer {
	if f.ErrOut == nil {
		return os.Stderr
	}
	return f.ErrOut
}

// Success outputs a successful operation result. human is printed in
// human-readable mode; when empty the data is printed with %+v.
func (f *OutputFormatter) Success(data any, human string) error {
	if f.Quiet {
		if idGetter, ok := data.(interface{ GetID() string }); ok {
			_, err := fmt.Fprintln(f.out(), idGetter.GetID())
			return err
		}
	}

	if f.JSON {
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": true,
			"data":    data,
		})
	}

	if human == "" {
		human = fmt.Sprintf("%+v", data)
	}
	_, err := fmt.Fprintln(f.out(), human)
	return err
}

// Error outputs error information
func (f *OutputFormatter) Error(code string, message string) error {
	return f.ErrorWithSuggestion(code, message, "")
}

// ErrorWithSuggestion outputs error information with an optional suggestion
func (f *OutputFormatter) ErrorWithSuggestion(code string, message string, suggestion string) error {
	if f.JSON {
		errData := map[string]any{
			"code":    code,
			"message": message,
		}
		if suggestion != "" {
			errData["suggestion"] = suggestion
		}
		return json.NewEncoder(f.out()).Encode(map[string]any{
			"success": false,
			"error":   errData,
		})
	}

	if _, err := fmt.Fprintf(f.errOut(), "Error: %s\n", message); err != nil {
		return err
	}
	if suggestion != "" {
		if _, err := fmt.Fprintf(f.errOut(), "Suggestion: %s\n", suggestion); err != nil {
			return err
		}
	}
	return nil
}

// Fail reports an error and returns it wrapped with an exit code, so a
// command can `return f.Fail(...)`
func (f *OutputFormatter) Fail(exitCode int, code string, err error) error {
	return f.FailWithSuggestion(exitCode, code, err, "")
}

// FailWithSuggestion is Fail with a suggestion line
func (f *OutputFormatter) FailWithSuggestion(exitCode int, code string, err error, suggestion string) error {
	if fmtErr := f.ErrorWithSuggestion(code, err.Error(), suggestion); fmtErr != nil {
		return Exit(exitCode, fmt.Errorf("%w (also failed to report: %v)", err, fmtErr))
	}
	return Exit(exitCode, err)
}

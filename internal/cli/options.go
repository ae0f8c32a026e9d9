package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fiapx/fiapx-keyframe-extractor/internal/usecase"
	"github.com/spf13/pflag"
)

// ErrHelp is returned when usage was requested explicitly.
var ErrHelp = pflag.ErrHelp

var ErrUsage = errors.New("invalid usage")

type Options struct {
	Input     string
	NthSecond int
	Threshold float64
}

// Parse reads args (without the program name). The last argument is always the
// input file and must not look like a flag.
func Parse(program string, args []string, out io.Writer) (*Options, error) {
	opts := &Options{}

	fs := pflag.NewFlagSet(program, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.IntVarP(&opts.NthSecond, "nth-second", "n", usecase.DefaultNthSecond, "every nth second (default 1, every second)")
	fs.Float64VarP(&opts.Threshold, "threshold", "t", usecase.DefaultThreshold, "difference threshold in range 0...1 (default 0.3)")
	fs.Usage = func() { Usage(out, program) }

	if len(args) == 0 || args[len(args)-1] == "" || strings.HasPrefix(args[len(args)-1], "-") {
		if len(args) > 0 && isHelp(args[len(args)-1]) {
			Usage(out, program)
			return nil, ErrHelp
		}
		Usage(out, program)
		return nil, ErrUsage
	}
	opts.Input = args[len(args)-1]

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, ErrHelp
		}
		Usage(out, program)
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return opts, nil
}

func isHelp(arg string) bool {
	return arg == "-h" || arg == "--help"
}

func Usage(w io.Writer, program string) {
	fmt.Fprintf(w, "Usage: %s [-t threshold] [-n nth_second] FILE\n", program)
	fmt.Fprintln(w, "Extract frames from a video file (looking for changes in content)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "   -t difference threshold in range 0...1 (default 0.3)")
	fmt.Fprintln(w, "   -n every nth second (default 1, every second)")
	fmt.Fprintln(w)
}

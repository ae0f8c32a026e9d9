package progress

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

const barWidth = 70

// Bar renders scan progress as "[=====>    ] NN%" on a terminal stream.
type Bar struct {
	out io.Writer
	bar *progressbar.ProgressBar
}

func NewBar(out io.Writer) *Bar {
	return &Bar{out: out}
}

func (b *Bar) Start(total int) {
	b.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(b.out),
		progressbar.OptionSetWidth(barWidth),
		progressbar.OptionSetPredictTime(false),
		progressbar.OptionSetElapsedTime(false),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "=",
			SaucerHead:    ">",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(b.out)
		}),
	)
}

func (b *Bar) Set(frameIndex int) {
	if b.bar == nil {
		return
	}
	_ = b.bar.Set(frameIndex)
}

func (b *Bar) Finish() {
	if b.bar == nil {
		return
	}
	_ = b.bar.Finish()
}

// Nop discards progress, used when the bar is disabled.
type Nop struct{}

func (Nop) Start(int) {}
func (Nop) Set(int)   {}
func (Nop) Finish()   {}

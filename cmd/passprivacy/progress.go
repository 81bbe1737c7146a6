package main

import (
	"io"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"

	"github.com/nao1215/passprivacy/internal/anonymity"
)

// progressBar shows finished evaluations on stderr.
// A nil *progressBar is a no-op.
type progressBar struct {
	container *mpb.Progress
	bar       *mpb.Bar
}

// newProgressBar creates a bar named name that completes after total
// evaluations.
func newProgressBar(w io.Writer, name string, total int) *progressBar {
	container := mpb.New(mpb.WithOutput(w), mpb.WithWidth(40))
	bar := container.AddBar(int64(total),
		mpb.BarFillerClearOnComplete(),
		mpb.PrependDecorators(
			decor.Name(name, decor.WCSyncSpaceR),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.OnComplete(decor.Percentage(decor.WCSyncSpace), "done"),
		),
	)
	return &progressBar{container: container, bar: bar}
}

// observe counts one finished evaluation. It is safe for concurrent use.
func (p *progressBar) observe(anonymity.Evaluation) {
	p.bar.Increment()
}

// finish stops the bar and waits for its last render. A failed run aborts
// the bar so that Wait returns.
func (p *progressBar) finish(err error) {
	if p == nil {
		return
	}
	if err != nil || !p.bar.Completed() {
		p.bar.Abort(false)
	}
	p.container.Wait()
}

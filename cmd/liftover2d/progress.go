package main

import (
	"os"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// progressBar counts lifted pairs on stderr. The zero value is disabled and
// every method is then a no-op.
type progressBar struct {
	p   *mpb.Progress
	bar *mpb.Bar
}

func newProgressBar(enabled bool) *progressBar {
	if !enabled {
		return &progressBar{}
	}

	p := mpb.New(mpb.WithWidth(40), mpb.WithOutput(os.Stderr))
	bar := p.AddBar(0,
		mpb.PrependDecorators(
			decor.Name("lifted pairs: ", decor.WC{W: len("lifted pairs: "), C: decor.DindentRight}),
			decor.CountersNoUnit("%d / %d", decor.WCSyncWidth),
		),
		mpb.AppendDecorators(
			decor.Elapsed(decor.ET_STYLE_GO),
			decor.OnComplete(decor.Name(""), ". done"),
		),
	)

	return &progressBar{p: p, bar: bar}
}

// SetTotal raises the total as more of the input is read.
func (pb *progressBar) SetTotal(n int) {
	if pb.bar != nil {
		pb.bar.SetTotal(int64(n), false)
	}
}

// Progress adapts the bar to lift.TableOptions.OnProgress for one chunk.
func (pb *progressBar) Progress() func(current, total int) {
	if pb.bar == nil {
		return nil
	}
	last := 0
	return func(current, total int) {
		pb.bar.IncrBy(current - last)
		last = current
	}
}

func (pb *progressBar) Done() {
	if pb.bar == nil {
		return
	}
	pb.bar.SetTotal(-1, true)
	pb.p.Wait()
}

func (pb *progressBar) Abort() {
	if pb.bar == nil {
		return
	}
	pb.bar.Abort(false)
	pb.p.Wait()
}

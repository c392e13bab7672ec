// Command cstr-stat builds unmanaged strings from arguments and prints
// their lengths, hashes and ordering.
package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/go-faster/errors"
	"go.uber.org/atomic"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/go-faster/cstr"
	"github.com/go-faster/cstr/internal/alloc"
	"github.com/go-faster/cstr/internal/cmd/app"
	"github.com/go-faster/cstr/internal/version"
)

type arguments struct {
	Jobs     int
	Rounds   int
	Encoding string
	Lossy    bool
	Version  bool
	Texts    []string
}

// build constructs owning strings for all texts, closing already built
// ones on failure.
func build(f *cstr.Factory, texts []string) (_ []*cstr.String, rerr error) {
	out := make([]*cstr.String, 0, len(texts))
	defer func() {
		if rerr != nil {
			rerr = multierr.Append(rerr, closeAll(out))
		}
	}()
	for i, text := range texts {
		s, err := f.FromString(text)
		if err != nil {
			return out, errors.Wrapf(err, "[%d]", i)
		}
		out = append(out, s)
	}
	return out, nil
}

func closeAll(list []*cstr.String) (err error) {
	for _, s := range list {
		err = multierr.Append(err, s.Close())
	}
	return err
}

// stress builds and compares strings concurrently to exercise the heap.
func stress(ctx context.Context, f *cstr.Factory, arg arguments) (uint64, error) {
	var built atomic.Uint64
	g, ctx := errgroup.WithContext(ctx)
	for j := 0; j < arg.Jobs; j++ {
		g.Go(func() error {
			for i := 0; i < arg.Rounds; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				list, err := build(f, arg.Texts)
				if err != nil {
					return errors.Wrap(err, "build")
				}
				for k := 1; k < len(list); k++ {
					_ = list[k-1].Compare(list[k].View())
				}
				built.Add(uint64(len(list)))
				if err := closeAll(list); err != nil {
					return errors.Wrap(err, "close")
				}
			}
			return nil
		})
	}
	err := g.Wait()
	return built.Load(), err
}

func run(ctx context.Context, lg *zap.Logger) (rerr error) {
	var arg arguments
	flag.IntVar(&arg.Jobs, "j", 4, "concurrent jobs")
	flag.IntVar(&arg.Rounds, "n", 0, "rounds per job, 0 to skip stress")
	flag.StringVar(&arg.Encoding, "enc", "ascii", "encoding: ascii, latin1, windows-1252")
	flag.BoolVar(&arg.Lossy, "lossy", false, "replace unrepresentable runes with '?'")
	flag.BoolVar(&arg.Version, "version", false, "print version and exit")
	flag.Parse()
	arg.Texts = flag.Args()

	if arg.Version {
		fmt.Println(version.Module, version.Get())
		return nil
	}
	lg.Debug("Starting", zap.Stringer("version", version.Get()))

	enc, ok := cstr.LookupEncoding(arg.Encoding)
	if !ok {
		return errors.Errorf("unknown encoding %q", arg.Encoding)
	}

	heap := alloc.New(alloc.Options{Logger: lg.Named("heap")})
	defer func() {
		rerr = multierr.Append(rerr, heap.Close())
	}()
	f := cstr.NewFactory(cstr.Options{
		Logger:    lg.Named("factory"),
		Allocator: heap,
		Encoding:  enc,
		Lossy:     arg.Lossy,
	})

	list, err := build(f, arg.Texts)
	if err != nil {
		return errors.Wrap(err, "build")
	}
	defer func() {
		rerr = multierr.Append(rerr, closeAll(list))
	}()

	for i, s := range list {
		next := "-"
		if i+1 < len(list) {
			next = fmt.Sprint(s.Compare(list[i+1].View()))
		}
		fmt.Printf("%3d %-24q len=%-5d hash=%016x source=%-5t next=%s\n",
			i, f.String(s.View()), s.Len(), s.Hash(), f.EqualString(s.View(), arg.Texts[i]), next,
		)
	}

	if arg.Rounds > 0 && len(arg.Texts) > 0 {
		start := time.Now()
		built, err := stress(ctx, f, arg)
		if err != nil {
			return errors.Wrap(err, "stress")
		}
		duration := time.Since(start)
		fmt.Println(duration.Round(time.Millisecond), built, "strings",
			humanize.Comma(int64(float64(built)/duration.Seconds()))+"/s",
			arg.Jobs, "jobs",
		)
	}
	fmt.Println("heap:", heap.Stats())

	return nil
}

func main() {
	app.Run(run)
}

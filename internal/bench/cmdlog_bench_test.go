package bench

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"testing"

	"github.com/MikhailWahib/cmdlog"
)

var writeCfg = &cmdlog.Config{
	Capacity:      1024,
	MaxRecordSize: 64 * 1024,
}

var readCfg = &cmdlog.Config{
	Capacity: 10,
}

func setupBenchLog(b *testing.B, cfg *cmdlog.Config) (*cmdlog.Log, func()) {
	l, err := cmdlog.Open(cfg)
	if err != nil {
		b.Fatalf("Failed to open log: %v", err)
	}

	cleanup := func() {
		_ = l.Close()
	}

	return l, cleanup
}

func generateCommand(i, size int) []byte {
	cmd := fmt.Appendf(nil, "cmd_%010d ", i)
	for len(cmd) < size-1 {
		cmd = append(cmd, byte('a'+rand.Intn(26)))
	}
	return append(cmd, '\n')
}

func populate(b *testing.B, l *cmdlog.Log, n, size int) {
	ctx := context.Background()
	for i := 0; i < n; i++ {
		if _, err := l.Write(ctx, generateCommand(i, size)); err != nil {
			b.Fatalf("Pre-populate write failed: %v", err)
		}
	}
}

func BenchmarkWrite(b *testing.B) {
	l, cleanup := setupBenchLog(b, writeCfg)
	defer cleanup()

	ctx := context.Background()
	cmd := generateCommand(0, 128)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := l.Write(ctx, cmd); err != nil {
			b.Fatalf("Write failed: %v", err)
		}
	}
}

func BenchmarkFragmentedWrite(b *testing.B) {
	l, cleanup := setupBenchLog(b, writeCfg)
	defer cleanup()

	ctx := context.Background()
	cmd := generateCommand(0, 128)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		for off := 0; off < len(cmd); off += 16 {
			end := min(off+16, len(cmd))
			if _, err := l.Write(ctx, cmd[off:end]); err != nil {
				b.Fatalf("Write failed: %v", err)
			}
		}
	}
}

func BenchmarkReadAll(b *testing.B) {
	l, cleanup := setupBenchLog(b, readCfg)
	defer cleanup()

	populate(b, l, 20, 1024)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		s := l.NewSession(context.Background())
		if _, err := io.Copy(io.Discard, s); err != nil {
			b.Fatalf("Read failed: %v", err)
		}
	}
}

func BenchmarkRandomReadAt(b *testing.B) {
	l, cleanup := setupBenchLog(b, readCfg)
	defer cleanup()

	populate(b, l, 20, 1024)

	ctx := context.Background()
	stats, err := l.Stats(ctx)
	if err != nil {
		b.Fatalf("Stats failed: %v", err)
	}
	buf := make([]byte, 256)

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		off := rand.Int63n(stats.Size)
		if _, err := l.ReadAt(ctx, buf, off); err != nil {
			b.Fatalf("ReadAt failed: %v", err)
		}
	}
}

func BenchmarkSeekToCommand(b *testing.B) {
	l, cleanup := setupBenchLog(b, readCfg)
	defer cleanup()

	populate(b, l, 10, 1024)

	ctx := context.Background()

	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if _, err := l.SeekToCommand(ctx, rand.Intn(10), rand.Intn(1024)); err != nil {
			b.Fatalf("SeekToCommand failed: %v", err)
		}
	}
}

func BenchmarkConcurrentReadWrite(b *testing.B) {
	l, cleanup := setupBenchLog(b, writeCfg)
	defer cleanup()

	populate(b, l, 100, 128)

	b.ResetTimer()

	b.RunParallel(func(pb *testing.PB) {
		ctx := context.Background()
		buf := make([]byte, 128)
		i := 0
		for pb.Next() {
			if i%4 == 0 {
				if _, err := l.Write(ctx, generateCommand(i, 128)); err != nil {
					b.Fatalf("Write failed: %v", err)
				}
			} else if _, err := l.ReadAt(ctx, buf, 0); err != nil {
				b.Fatalf("ReadAt failed: %v", err)
			}
			i++
		}
	})
}

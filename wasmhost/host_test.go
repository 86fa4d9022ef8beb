package wasmhost

import (
	"bytes"
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/wippyai/rbuf/errors"
)

// guestWasm imports the four host functions from "rbuf" and re-exports each
// through a wrapper that forwards its arguments, plus one page of memory:
//
//	(import "rbuf" "encode_json" (func (param i32 i32 i32 i32) (result i32)))
//	(import "rbuf" "decode_json" (func (param i32 i32 i32 i32) (result i32)))
//	(import "rbuf" "check"       (func (param i32 i32) (result i32)))
//	(import "rbuf" "last_error"  (func (param i32 i32) (result i32)))
//	(memory (export "memory") 1)
//	(func (export "encode") ...) (func (export "decode") ...)
//	(func (export "check") ...)  (func (export "last_error") ...)
var guestWasm = []byte{
	// header
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00,
	// type: (i32 i32)->i32, (i32 i32 i32 i32)->i32
	0x01, 0x0f, 0x02, 0x60, 0x02, 0x7f, 0x7f, 0x01, 0x7f, 0x60, 0x04, 0x7f, 0x7f, 0x7f, 0x7f, 0x01, 0x7f,
	// import
	0x02, 0x46, 0x04,
	0x04, 0x72, 0x62, 0x75, 0x66, 0x0b, 0x65, 0x6e, 0x63, 0x6f, 0x64, 0x65, 0x5f, 0x6a, 0x73, 0x6f, 0x6e, 0x00, 0x01,
	0x04, 0x72, 0x62, 0x75, 0x66, 0x0b, 0x64, 0x65, 0x63, 0x6f, 0x64, 0x65, 0x5f, 0x6a, 0x73, 0x6f, 0x6e, 0x00, 0x01,
	0x04, 0x72, 0x62, 0x75, 0x66, 0x05, 0x63, 0x68, 0x65, 0x63, 0x6b, 0x00, 0x00,
	0x04, 0x72, 0x62, 0x75, 0x66, 0x0a, 0x6c, 0x61, 0x73, 0x74, 0x5f, 0x65, 0x72, 0x72, 0x6f, 0x72, 0x00, 0x00,
	// function
	0x03, 0x05, 0x04, 0x01, 0x01, 0x00, 0x00,
	// memory: min 1 page
	0x05, 0x03, 0x01, 0x00, 0x01,
	// export
	0x07, 0x31, 0x05,
	0x06, 0x6d, 0x65, 0x6d, 0x6f, 0x72, 0x79, 0x02, 0x00,
	0x06, 0x65, 0x6e, 0x63, 0x6f, 0x64, 0x65, 0x00, 0x04,
	0x06, 0x64, 0x65, 0x63, 0x6f, 0x64, 0x65, 0x00, 0x05,
	0x05, 0x63, 0x68, 0x65, 0x63, 0x6b, 0x00, 0x06,
	0x0a, 0x6c, 0x61, 0x73, 0x74, 0x5f, 0x65, 0x72, 0x72, 0x6f, 0x72, 0x00, 0x07,
	// code
	0x0a, 0x2d, 0x04,
	0x0c, 0x00, 0x20, 0x00, 0x20, 0x01, 0x20, 0x02, 0x20, 0x03, 0x10, 0x00, 0x0b,
	0x0c, 0x00, 0x20, 0x00, 0x20, 0x01, 0x20, 0x02, 0x20, 0x03, 0x10, 0x01, 0x0b,
	0x08, 0x00, 0x20, 0x00, 0x20, 0x01, 0x10, 0x02, 0x0b,
	0x08, 0x00, 0x20, 0x00, 0x20, 0x01, 0x10, 0x03, 0x0b,
}

const (
	inPtr   = 0
	outPtr  = 4096
	errPtr  = 8192
	pageCap = 4096
)

type guest struct {
	t   *testing.T
	ctx context.Context
	mod api.Module
}

func newGuest(t *testing.T, cfg Config) *guest {
	t.Helper()
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	t.Cleanup(func() { r.Close(ctx) })

	if _, err := Instantiate(ctx, r, cfg); err != nil {
		t.Fatalf("Instantiate host: %v", err)
	}
	mod, err := r.InstantiateWithConfig(ctx, guestWasm, wazero.NewModuleConfig().WithName("guest"))
	if err != nil {
		t.Fatalf("Instantiate guest: %v", err)
	}
	return &guest{t: t, ctx: ctx, mod: mod}
}

func (g *guest) write(ptr uint32, data []byte) {
	g.t.Helper()
	if !g.mod.Memory().Write(ptr, data) {
		g.t.Fatalf("write %d bytes at %d failed", len(data), ptr)
	}
}

func (g *guest) read(ptr, n uint32) []byte {
	g.t.Helper()
	data, ok := g.mod.Memory().Read(ptr, n)
	if !ok {
		g.t.Fatalf("read %d bytes at %d failed", n, ptr)
	}
	return bytes.Clone(data)
}

func (g *guest) call(name string, args ...uint64) int32 {
	g.t.Helper()
	results, err := g.mod.ExportedFunction(name).Call(g.ctx, args...)
	if err != nil {
		g.t.Fatalf("call %s: %v", name, err)
	}
	return api.DecodeI32(results[0])
}

func (g *guest) lastError() string {
	g.t.Helper()
	n := g.call("last_error", errPtr, pageCap)
	if n <= 0 {
		return ""
	}
	return string(g.read(errPtr, uint32(n)))
}

func TestGuest_EncodeDecodeRoundTrip(t *testing.T) {
	g := newGuest(t, Config{})

	src := []byte(`{"key":[1000]}`)
	g.write(inPtr, src)

	n := g.call("encode", inPtr, uint64(len(src)), outPtr, pageCap)
	want := []byte{0x06, 0x01, 0x03, 0x6b, 0x65, 0x79, 0x05, 0x01, 0x03, 0x00, 0x05, 0x40, 0x8f, 0x40}
	if n != int32(len(want)) {
		t.Fatalf("encode returned %d, want %d (%s)", n, len(want), g.lastError())
	}
	if wire := g.read(outPtr, uint32(n)); !bytes.Equal(wire, want) {
		t.Fatalf("wire = % x, want % x", wire, want)
	}

	if got := g.call("check", outPtr, uint64(n)); got != 0 {
		t.Fatalf("check = %d (%s)", got, g.lastError())
	}

	m := g.call("decode", outPtr, uint64(n), errPtr, pageCap)
	if m < 0 {
		t.Fatalf("decode failed: %s", g.lastError())
	}
	if text := string(g.read(errPtr, uint32(m))); text != string(src) {
		t.Errorf("decoded %s, want %s", text, src)
	}
	if msg := g.lastError(); msg != "" {
		t.Errorf("last error after success = %q", msg)
	}
}

func TestGuest_OutputTooSmall(t *testing.T) {
	g := newGuest(t, Config{})

	src := []byte(`["a","b","c"]`)
	g.write(inPtr, src)
	g.write(outPtr, []byte{0xAA, 0xAA})

	n := g.call("encode", inPtr, uint64(len(src)), outPtr, 2)
	if n <= 2 {
		t.Fatalf("encode returned %d, want full length > 2", n)
	}
	if got := g.read(outPtr, 2); !bytes.Equal(got, []byte{0xAA, 0xAA}) {
		t.Errorf("output written despite small capacity: % x", got)
	}
}

func TestGuest_Failures(t *testing.T) {
	g := newGuest(t, Config{MaxDepth: 2})

	tests := []struct {
		name string
		fn   string
		in   []byte
		args func(n uint64) []uint64
		msg  string
	}{
		{
			name: "invalid json",
			fn:   "encode",
			in:   []byte(`{"a":`),
			args: func(n uint64) []uint64 { return []uint64{inPtr, n, outPtr, pageCap} },
			msg:  "invalid_input",
		},
		{
			name: "too deep",
			fn:   "encode",
			in:   []byte(`[[[1]]]`),
			args: func(n uint64) []uint64 { return []uint64{inPtr, n, outPtr, pageCap} },
			msg:  "depth_exceeded",
		},
		{
			name: "unknown tag",
			fn:   "decode",
			in:   []byte{9},
			args: func(n uint64) []uint64 { return []uint64{inPtr, n, outPtr, pageCap} },
			msg:  "invalid_type",
		},
		{
			name: "short array",
			fn:   "decode",
			in:   []byte{5, 5, 1},
			args: func(n uint64) []uint64 { return []uint64{inPtr, n, outPtr, pageCap} },
			msg:  "buffer_underrun",
		},
		{
			name: "check empty",
			fn:   "check",
			in:   nil,
			args: func(n uint64) []uint64 { return []uint64{inPtr, n} },
			msg:  "invalid_length",
		},
		{
			name: "input out of bounds",
			fn:   "decode",
			in:   nil,
			args: func(uint64) []uint64 { return []uint64{65530, 100, outPtr, pageCap} },
			msg:  "out_of_bounds",
		},
		{
			name: "output out of bounds",
			fn:   "encode",
			in:   []byte(`true`),
			args: func(n uint64) []uint64 { return []uint64{inPtr, n, 65536, pageCap} },
			msg:  "out_of_bounds",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g.t = t
			if len(tt.in) > 0 {
				g.write(inPtr, tt.in)
			}
			if got := g.call(tt.fn, tt.args(uint64(len(tt.in)))...); got != -1 {
				t.Fatalf("%s returned %d, want -1", tt.fn, got)
			}
			if msg := g.lastError(); !strings.Contains(msg, tt.msg) {
				t.Errorf("last error %q does not mention %q", msg, tt.msg)
			}
		})
	}
}

func TestGuest_CustomModuleName(t *testing.T) {
	ctx := context.Background()
	r := wazero.NewRuntime(ctx)
	defer r.Close(ctx)

	if _, err := Instantiate(ctx, r, Config{ModuleName: "codec"}); err != nil {
		t.Fatal(err)
	}
	if r.Module("codec") == nil {
		t.Fatal("host module not registered under custom name")
	}
	// the guest imports "rbuf", which is not registered
	if _, err := r.Instantiate(ctx, guestWasm); err == nil {
		t.Fatal("expected guest instantiation to fail without an rbuf module")
	}
}

type sliceMemory []byte

func (m sliceMemory) Read(offset, length uint32) ([]byte, error) {
	end := uint64(offset) + uint64(length)
	if end > uint64(len(m)) {
		return nil, errors.OutOfBounds(errors.PhaseHost, offset, length)
	}
	return m[offset:end], nil
}

func (m sliceMemory) Write(offset uint32, data []byte) error {
	end := uint64(offset) + uint64(len(data))
	if end > uint64(len(m)) {
		return errors.OutOfBounds(errors.PhaseHost, offset, uint32(len(data)))
	}
	copy(m[offset:], data)
	return nil
}

func TestHost_PerCallerErrors(t *testing.T) {
	h := New(Config{})
	mem := make(sliceMemory, 256)

	if got := h.Check(mem, "a", 0, 0); got != -1 {
		t.Fatalf("Check = %d, want -1", got)
	}
	copy(mem, []byte{1})
	if got := h.Check(mem, "b", 0, 1); got != 0 {
		t.Fatalf("Check = %d, want 0", got)
	}

	if h.Err("a") == "" {
		t.Error("caller a lost its error")
	}
	if h.Err("b") != "" {
		t.Errorf("caller b has error %q", h.Err("b"))
	}

	n := h.LastError(mem, "a", 100, 4)
	if int(n) != len(h.Err("a")) {
		t.Errorf("LastError = %d, want %d", n, len(h.Err("a")))
	}
	if !bytes.Equal(mem[100:104], make([]byte, 4)) {
		t.Error("message written despite small capacity")
	}
}

func TestHost_Concurrent(t *testing.T) {
	h := New(Config{})
	src := []byte(`{"a":[1,2,3]}`)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(caller string) {
			defer wg.Done()
			mem := make(sliceMemory, 512)
			copy(mem, src)
			for j := 0; j < 100; j++ {
				n := h.EncodeJSON(mem, caller, 0, uint32(len(src)), 128, 128)
				if n < 0 {
					t.Errorf("EncodeJSON failed: %s", h.Err(caller))
					return
				}
				if m := h.DecodeJSON(mem, caller, 128, uint32(n), 256, 256); m != int32(len(src)) {
					t.Errorf("DecodeJSON = %d: %s", m, h.Err(caller))
					return
				}
			}
		}(string(rune('a' + i)))
	}
	wg.Wait()
}

func TestGuestMemory_NilMemory(t *testing.T) {
	m := NewGuestMemory(nil)
	if _, err := m.Read(0, 1); !stderrors.Is(err, errors.New(errors.PhaseHost, errors.KindOutOfBounds).Build()) {
		t.Errorf("Read err = %v", err)
	}
	if err := m.Write(0, []byte{1}); errors.KindOf(err) != errors.KindOutOfBounds {
		t.Errorf("Write err = %v", err)
	}
}

func TestHost_LogsFailures(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := Logger()
	SetLogger(zap.New(core))
	defer SetLogger(prev)

	h := New(Config{})
	mem := make(sliceMemory, 16)
	h.Check(mem, "guest", 0, 0)

	entries := logs.FilterMessage("guest call failed").All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["caller"] != "guest" || fields["func"] != "check" {
		t.Errorf("fields = %v", fields)
	}
}

package wasmhost

import (
	"context"
	"sync"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/rbuf/codec"
	"github.com/wippyai/rbuf/errors"
	"github.com/wippyai/rbuf/transcoder"
)

// DefaultModuleName is the import module name guests use when Config.ModuleName is empty.
const DefaultModuleName = "rbuf"

// failed is the i32 result of a host call that did not complete.
const failed int32 = -1

// Config configures the host module. The zero value is the default.
type Config struct {
	// ModuleName is the import module name; empty means DefaultModuleName.
	ModuleName string
	// MaxDepth bounds the nesting depth of decoded and encoded trees; 0 means unbounded.
	MaxDepth int
}

// Host implements the rbuf host functions over guest memory.
// The last failure is kept per calling module.
type Host struct {
	cfg Config
	enc *codec.Encoder
	dec *codec.Decoder

	mu      sync.Mutex
	lastErr map[string]string
}

// New creates a Host with the given config.
func New(cfg Config) *Host {
	if cfg.ModuleName == "" {
		cfg.ModuleName = DefaultModuleName
	}
	return &Host{
		cfg:     cfg,
		enc:     codec.NewEncoder(codec.EncoderOptions{MaxDepth: cfg.MaxDepth}),
		dec:     codec.NewDecoder(codec.DecoderOptions{MaxDepth: cfg.MaxDepth}),
		lastErr: make(map[string]string),
	}
}

// Instantiate builds a Host from cfg and registers it with r.
func Instantiate(ctx context.Context, r wazero.Runtime, cfg Config) (api.Module, error) {
	return New(cfg).Instantiate(ctx, r)
}

// Instantiate registers the host module with r. Guests must be instantiated afterwards.
func (h *Host) Instantiate(ctx context.Context, r wazero.Runtime) (api.Module, error) {
	i32 := api.ValueTypeI32
	quad := []api.ValueType{i32, i32, i32, i32}
	pair := []api.ValueType{i32, i32}
	result := []api.ValueType{i32}

	builder := r.NewHostModuleBuilder(h.cfg.ModuleName)

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(h.EncodeJSON(NewGuestMemory(mod.Memory()), mod.Name(),
				api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2]), api.DecodeU32(stack[3])))
		}), quad, result).
		WithParameterNames("in_ptr", "in_len", "out_ptr", "out_cap").
		Export("encode_json")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(h.DecodeJSON(NewGuestMemory(mod.Memory()), mod.Name(),
				api.DecodeU32(stack[0]), api.DecodeU32(stack[1]), api.DecodeU32(stack[2]), api.DecodeU32(stack[3])))
		}), quad, result).
		WithParameterNames("in_ptr", "in_len", "out_ptr", "out_cap").
		Export("decode_json")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(h.Check(NewGuestMemory(mod.Memory()), mod.Name(),
				api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
		}), pair, result).
		WithParameterNames("in_ptr", "in_len").
		Export("check")

	builder.NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(_ context.Context, mod api.Module, stack []uint64) {
			stack[0] = api.EncodeI32(h.LastError(NewGuestMemory(mod.Memory()), mod.Name(),
				api.DecodeU32(stack[0]), api.DecodeU32(stack[1])))
		}), pair, result).
		WithParameterNames("out_ptr", "out_cap").
		Export("last_error")

	mod, err := builder.Instantiate(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "instantiate host module "+h.cfg.ModuleName)
	}
	Logger().Debug("host module instantiated",
		zap.String("module", h.cfg.ModuleName),
		zap.Int("max_depth", h.cfg.MaxDepth))
	return mod, nil
}

// EncodeJSON reads JSON text at [inPtr, inPtr+inLen), encodes it and writes
// the wire bytes at outPtr when they fit in outCap. It returns the full wire
// length, so a guest can retry with a larger buffer, or -1 on failure.
func (h *Host) EncodeJSON(mem Memory, caller string, inPtr, inLen, outPtr, outCap uint32) int32 {
	in, err := mem.Read(inPtr, inLen)
	if err != nil {
		return h.fail(caller, "encode_json", err)
	}
	tree, err := transcoder.FromJSON(in)
	if err != nil {
		return h.fail(caller, "encode_json", err)
	}
	wire, err := h.enc.Encode(tree)
	if err != nil {
		return h.fail(caller, "encode_json", err)
	}
	return h.emit(mem, caller, "encode_json", wire, outPtr, outCap)
}

// DecodeJSON decodes wire bytes at [inPtr, inPtr+inLen) and writes JSON text
// at outPtr when it fits in outCap. Same return convention as EncodeJSON.
func (h *Host) DecodeJSON(mem Memory, caller string, inPtr, inLen, outPtr, outCap uint32) int32 {
	in, err := mem.Read(inPtr, inLen)
	if err != nil {
		return h.fail(caller, "decode_json", err)
	}
	tree, err := h.dec.Decode(in)
	if err != nil {
		return h.fail(caller, "decode_json", err)
	}
	text, err := transcoder.ToJSON(tree)
	if err != nil {
		return h.fail(caller, "decode_json", err)
	}
	return h.emit(mem, caller, "decode_json", text, outPtr, outCap)
}

// Check validates the shape of wire bytes. It returns 0 or -1.
func (h *Host) Check(mem Memory, caller string, inPtr, inLen uint32) int32 {
	in, err := mem.Read(inPtr, inLen)
	if err != nil {
		return h.fail(caller, "check", err)
	}
	if err := codec.CheckBuffer(in); err != nil {
		return h.fail(caller, "check", err)
	}
	h.clear(caller)
	return 0
}

// LastError copies the caller's last failure message to outPtr when it fits
// in outCap and returns its length, 0 when the last call succeeded.
func (h *Host) LastError(mem Memory, caller string, outPtr, outCap uint32) int32 {
	msg := h.Err(caller)
	if msg == "" {
		return 0
	}
	if uint32(len(msg)) <= outCap {
		if err := mem.Write(outPtr, []byte(msg)); err != nil {
			Logger().Warn("last_error: write failed", zap.String("caller", caller), zap.Error(err))
			return failed
		}
	}
	return int32(len(msg))
}

// Err returns the last failure message recorded for caller.
func (h *Host) Err(caller string) string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.lastErr[caller]
}

func (h *Host) emit(mem Memory, caller, fn string, out []byte, outPtr, outCap uint32) int32 {
	if uint64(len(out)) > 1<<31-1 {
		return h.fail(caller, fn, errors.InvalidLength(errors.PhaseHost, errors.NoOffset, "result exceeds i32 range"))
	}
	if uint32(len(out)) <= outCap {
		if err := mem.Write(outPtr, out); err != nil {
			return h.fail(caller, fn, err)
		}
	}
	h.clear(caller)
	return int32(len(out))
}

func (h *Host) fail(caller, fn string, err error) int32 {
	Logger().Debug("guest call failed",
		zap.String("caller", caller),
		zap.String("func", fn),
		zap.String("kind", string(errors.KindOf(err))),
		zap.Error(err))

	h.mu.Lock()
	h.lastErr[caller] = err.Error()
	h.mu.Unlock()
	return failed
}

func (h *Host) clear(caller string) {
	h.mu.Lock()
	delete(h.lastErr, caller)
	h.mu.Unlock()
}

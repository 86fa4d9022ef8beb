// Package wasmhost exposes the rbuf codec to WebAssembly guests as a wazero host module.
//
// # Imports
//
// Guests import the functions from module "rbuf" (Config.ModuleName):
//
//	Function     Params                            Result
//	─────────────────────────────────────────────────────────────────────
//	encode_json  in_ptr, in_len, out_ptr, out_cap  wire length, or -1
//	decode_json  in_ptr, in_len, out_ptr, out_cap  JSON length, or -1
//	check        in_ptr, in_len                    0, or -1
//	last_error   out_ptr, out_cap                  message length, 0 if none
//
// All parameters and results are i32. Output is written only when it fits in
// out_cap; the full length is returned either way, so a guest can grow its
// buffer and call again.
//
// # Failures
//
// A failed call returns -1 and records the error message for the calling
// module. last_error copies it out. A successful call clears it. Guest
// ranges outside linear memory fail with an out_of_bounds error in phase host.
//
// # Usage
//
//	r := wazero.NewRuntime(ctx)
//	defer r.Close(ctx)
//
//	if _, err := wasmhost.Instantiate(ctx, r, wasmhost.Config{MaxDepth: 256}); err != nil {
//	    log.Fatal(err)
//	}
//	guest, err := r.Instantiate(ctx, guestWasm)
//
// # Thread Safety
//
// A Host may serve many guest modules concurrently. Per-module error state is
// guarded by a mutex.
package wasmhost

// Package statsview serves runtime statistics over HTTP while the emulator
// runs. It is only functional when built with the statsview tag:
//
//	go build -tags statsview ./cmd/nescore
//
// Charts are then served at /debug/statsview and the standard pprof pages
// at /debug/pprof/ on the configured address, localhost:12600 by default.
package statsview

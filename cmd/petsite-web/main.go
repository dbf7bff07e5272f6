//go:build js && wasm

// Command petsite-web is the browser side of a petsite page. Build it with
// GOOS=js GOARCH=wasm and load it through wasm_exec.js.
package main

import (
	"time"

	"github.com/eringen/petsite/webui"
)

func main() {
	webui.Init(time.Now)
	select {}
}

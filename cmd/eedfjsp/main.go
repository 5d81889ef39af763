package main

import (
	"os"

	"k8s.io/klog/v2"

	"github.com/greenfab/eedfjsp/cmd/eedfjsp/app"
)

func main() {
	cmd := app.NewEEDFJSPCommand()
	code := 0
	if err := cmd.Execute(); err != nil {
		klog.ErrorS(err, "Command failed")
		code = 1
	}
	klog.Flush()
	os.Exit(code)
}

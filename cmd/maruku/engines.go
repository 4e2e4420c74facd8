package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dgleich/maruku"
)

// runEngines lists the registered math engines.
func runEngines(env *Environment) error {
	conv, err := maruku.NewConverter(maruku.WithLogger(newLogger(io.Discard, true, false)))
	if err != nil {
		return err
	}
	defer conv.Close()

	fmt.Fprintf(env.Stdout, "markup (%s): %s\n", maruku.SettingMathEngine, strings.Join(conv.MarkupEngines(), ", "))
	fmt.Fprintf(env.Stdout, "png    (%s): %s\n", maruku.SettingPNGEngine, strings.Join(conv.PNGEngines(), ", "))
	return nil
}

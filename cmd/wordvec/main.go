// Command wordvec copies and queries word2vec binary embedding tables.
package main

import (
	"os"

	"github.com/spf13/afero"
)

func main() {
	if err := newRootCmd(newApp(afero.NewOsFs())).Execute(); err != nil {
		os.Exit(1)
	}
}

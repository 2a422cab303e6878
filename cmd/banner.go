package cmd

import (
	"fmt"
	"io"
)

const banner = `
 ██████╗  ██████╗████████╗ ██████╗ ██████╗  ██████╗ ████████╗
██╔═══██╗██╔════╝╚══██╔══╝██╔═══██╗██╔══██╗██╔═══██╗╚══██╔══╝
██║   ██║██║        ██║   ██║   ██║██████╔╝██║   ██║   ██║
██║   ██║██║        ██║   ██║   ██║██╔══██╗██║   ██║   ██║
╚██████╔╝╚██████╗   ██║   ╚██████╔╝██████╔╝╚██████╔╝   ██║
 ╚═════╝  ╚═════╝   ╚═╝    ╚═════╝ ╚═════╝  ╚═════╝    ╚═╝

Role-Driven Grid Combat Intelligence`

func printBanner(w io.Writer) {
	fmt.Fprintln(w, banner)
}

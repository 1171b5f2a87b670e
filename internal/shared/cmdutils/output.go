package cmdutils

import "fmt"

const logo = "🦭"

// PrintResponse prints an executed job's payload to the terminal the
// way the gateway banner does.
func PrintResponse(text string) {
	if text == "" {
		return
	}

	fmt.Printf("\n%s harborseal\n%s\n\n", logo, text)
}

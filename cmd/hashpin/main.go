// Command hashpin prints the bcrypt hash to use as AUTH_PIN_HASH.
package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	serviceAuth "github.com/driverwallet/shift-backend-go/internal/service/auth"
)

func main() {
	pin := ""
	if len(os.Args) > 1 {
		pin = os.Args[1]
	} else {
		fmt.Fprint(os.Stderr, "PIN: ")
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil && line == "" {
			fmt.Fprintln(os.Stderr, "failed to read PIN:", err)
			os.Exit(1)
		}
		pin = strings.TrimSpace(line)
	}

	if len(pin) < 4 {
		fmt.Fprintln(os.Stderr, "PIN must have at least 4 digits")
		os.Exit(1)
	}

	hash, err := serviceAuth.HashPIN(pin)
	if err != nil {
		fmt.Fprintln(os.Stderr, "failed to hash PIN:", err)
		os.Exit(1)
	}
	fmt.Println(hash)
}

package common

import "errors"

// SimpleTimeFormat a common, but simple, timestamp format
const SimpleTimeFormat = "2006-01-02 15:04:05"

var (
	// ErrNilArguments is a common error response to highlight that nils were passed in
	// when they should not have been
	ErrNilArguments = errors.New("received nil argument(s)")
	// ErrNilPointer is returned when a method receiver or required pointer is nil
	ErrNilPointer = errors.New("nil pointer")
)

// ASCIILogo is printed to the command line window before a run
const ASCIILogo = `
    ____                  ____             __   __            __
   / __ \___  _________  / __ )____ ______/ /__/ /____  _____/ /____  _____
  / /_/ / _ \/ ___/ __ \/ __  / __  / ___/ //_/ __/ _ \/ ___/ __/ _ \/ ___/
 / ____/  __/ /  / /_/ / /_/ / /_/ / /__/ ,< / /_/  __(__  ) /_/  __/ /
/_/    \___/_/  / .___/_____/\__,_/\___/_/|_|\__/\___/____/\__/\___/_/
               /_/
`

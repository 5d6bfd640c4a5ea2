package cli

// Export internal functions for testing.

// RunProcess exports runProcess for testing.
var RunProcess = runProcess

// ParseProcessOptions exports parseProcessOptions for testing.
var ParseProcessOptions = parseProcessOptions

// ProcessOptions exports processOptions for testing.
type ProcessOptions = processOptions

// RunTransform exports runTransform for testing.
var RunTransform = runTransform

// RunConfigSet exports runConfigSet for testing.
var RunConfigSet = runConfigSet

// RunConfigGet exports runConfigGet for testing.
var RunConfigGet = runConfigGet

// RunConfigList exports runConfigList for testing.
var RunConfigList = runConfigList

// RunConfigUnset exports runConfigUnset for testing.
var RunConfigUnset = runConfigUnset

// ReadInput exports readInput for testing.
var ReadInput = readInput

// WriteOutput exports writeOutput for testing.
var WriteOutput = writeOutput

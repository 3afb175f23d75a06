package makeright

// Packet data keys shared across the step chains built in this package.
const (
	keyServerStartedSet   = "makeright.serverStartedSet"
	keyIntrospectorResult = "makeright.introspectorResult"
	keyValidationFailed   = "makeright.validationFailed"
	keyProgressing        = "makeright.progressing"
)

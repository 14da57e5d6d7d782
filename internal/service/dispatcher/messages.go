package dispatcher

// Reply texts owned by the dispatcher. Registration texts live in the
// registration package.
const (
	msgWelcome = "Hello! Type /help to see the list of available commands."

	msgHelp = "Available commands:\n" +
		"    /cancel - cancel the current command;\n" +
		"    /register - register your account."

	msgUnknownCommand = "Unknown command! Type /help to see the list of available commands."

	msgUnsupportedType = "Unsupported message type!"

	msgCancelled = "Command cancelled!"

	msgGenericError = "Unknown error! Type /cancel and try again."

	msgNotActivated = "Register or activate your account to upload content."

	msgFinishCommand = "Cancel the current command with /cancel before sending files."

	msgUploadFailed = "Unfortunately, the upload failed. Please try again later."

	msgDocumentUploadedFmt = "Document uploaded successfully! Download link: %s"

	msgPhotoUploadedFmt = "Photo uploaded successfully! Download link: %s"
)

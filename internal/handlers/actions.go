package handlers

// Action types for user activity logging.
const (
	ActionCommandStart         = "command_start"
	ActionCommandHelp          = "command_help"
	ActionCommandVersion       = "command_version"
	ActionCommandBan           = "command_ban"
	ActionCommandUnban         = "command_unban"
	ActionCommandAllPosts      = "command_all_posts"
	ActionCommandAddChannel    = "command_add_channel"
	ActionCommandRemoveChannel = "command_remove_channel"
	ActionSubmitText           = "submit_text"
	ActionSubmitPhoto          = "submit_photo"
)

// Package telegram sends ticket alerts to a chat through the Telegram Bot API.
//
// Authentication requires a bot token (from @BotFather) and a chat ID. Messages
// are sent with HTML parse mode; FormatMessage escapes page-derived text so a
// stray '<' in a team name cannot break delivery.
package telegram

// Package slackbot holds the Slack-facing edges of the bridge: the
// notifier used by the notify_slack command and the HTTP handler that
// translates slash commands into dispatchable command envelopes.
package slackbot

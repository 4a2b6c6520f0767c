package policy

// DefaultPolicy allows non-shell tools and simple read-only commands that expose no secrets,
// blocks destructive commands and asks the user about every other command line.
const DefaultPolicy = `
package tool_policy

import rego.v1

read_only := {
	"ls", "pwd", "echo", "cat", "head", "tail", "wc", "whoami", "date", "uname",
	"df", "du", "free", "ps", "uptime", "which", "hostname", "id", "vm_stat",
}

destructive := {
	"rm", "rmdir", "mkfs", "dd", "shutdown", "reboot", "halt", "poweroff",
	"kill", "killall", "chmod", "chown", "sudo",
}

words := [w | some w in regex.split("\\s+", trim_space(input.command)); w != ""]

program := words[0]

# Operators, substitutions and redirections make the first word meaningless.
compound if regex.match("[;&|<>$(){}\\x60\\\\]", input.command)

destructive_word if {
	some w in words
	destructive[w]
}

destructive_word if {
	some w in words
	some d in destructive
	endswith(w, concat("", ["/", d]))
}

raw_device if regex.match(">\\s*/dev/(sd|nvme|disk)", input.command)

block_reason := "empty command" if count(words) == 0

block_reason := sprintf("destructive command: %s", [input.command]) if {
	count(words) > 0
	destructive_word
}

block_reason := "writes to a raw device" if {
	count(words) > 0
	not destructive_word
	raw_device
}

blocked if block_reason

read_only_simple if {
	read_only[program]
	not compound
}

default decision := {"decision": "allow", "reason": "not a shell tool"}

decision := {"decision": "block", "reason": block_reason} if {
	input.shell
	blocked
}

decision := {"decision": "allow", "reason": sprintf("read-only command: %s", [program])} if {
	input.shell
	not blocked
	read_only_simple
}

decision := {"decision": "require_approval", "reason": sprintf("command needs approval: %s", [input.command])} if {
	input.shell
	not blocked
	not read_only_simple
}
`

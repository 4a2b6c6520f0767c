package tools

import (
	"time"

	"github.com/xiaot623/gogo/agentloop/internal/domain"
)

// Options configures the built-in tools.
type Options struct {
	WorkDir        string
	ShellTimeout   time.Duration
	ShellMaxOutput int
}

var commandSchema = objectSchema([]string{"command"}, map[string]any{
	"command": map[string]any{
		"type":        "string",
		"description": "The shell command to execute, e.g. 'ls -l'.",
	},
})

var operandsSchema = objectSchema([]string{"a", "b"}, map[string]any{
	"a": map[string]any{"type": "integer", "description": "First operand."},
	"b": map[string]any{"type": "integer", "description": "Second operand."},
})

var noArgsSchema = objectSchema([]string{}, map[string]any{})

// RegisterBuiltins registers every built-in tool on reg.
func RegisterBuiltins(reg *Registry, opts Options) error {
	fsys := NewFilesystem(opts.WorkDir)
	shell := NewShell(opts.WorkDir, opts.ShellTimeout, opts.ShellMaxOutput)

	defs := []struct {
		spec domain.ToolSpec
		exec ExecutorFunc
	}{
		{
			spec: domain.ToolSpec{
				Name:        domain.ToolCreateDirectory,
				Description: "Creates a new, empty directory with the given name in the current working directory.",
				Parameters: objectSchema([]string{"directory_name"}, map[string]any{
					"directory_name": map[string]any{"type": "string", "description": "Name of the directory to create."},
				}),
			},
			exec: fsys.CreateDirectory,
		},
		{
			spec: domain.ToolSpec{
				Name:        domain.ToolCreateFile,
				Description: "Creates a new, empty file with the given name in the current working directory. An existing file is truncated.",
				Parameters: objectSchema([]string{"filename"}, map[string]any{
					"filename": map[string]any{"type": "string", "description": "Name of the file to create."},
				}),
			},
			exec: fsys.CreateFile,
		},
		{
			spec: domain.ToolSpec{
				Name:        domain.ToolRunTerminalCommand,
				Description: "Executes a command in the terminal and returns its exit code, standard output and standard error.",
				Parameters:  commandSchema,
			},
			exec: shell.Execute,
		},
		{
			spec: domain.ToolSpec{
				Name: domain.ToolRunShellCommand,
				Description: "Executes a shell command on the user's computer and returns the output. " +
					"Can chain commands like 'cd dir && ls', create files ('echo hello > file.txt') and read files ('cat file.txt').",
				Parameters: commandSchema,
			},
			exec: shell.Execute,
		},
		{
			spec: domain.ToolSpec{
				Name:        domain.ToolGetRunningProcesses,
				Description: "Reads the processes currently running on the computer (ps aux).",
				Parameters:  noArgsSchema,
			},
			exec: shell.Fixed(ProcessListCommand()),
		},
		{
			spec: domain.ToolSpec{
				Name:        domain.ToolGetRAMUsage,
				Description: "Reads the current RAM usage of the computer.",
				Parameters:  noArgsSchema,
			},
			exec: shell.Fixed(RAMUsageCommand()),
		},
		{
			spec: domain.ToolSpec{Name: domain.ToolAdd, Description: "Adds two integers.", Parameters: operandsSchema},
			exec: Add,
		},
		{
			spec: domain.ToolSpec{Name: domain.ToolSubtract, Description: "Subtracts b from a.", Parameters: operandsSchema},
			exec: Subtract,
		},
		{
			spec: domain.ToolSpec{Name: domain.ToolMultiply, Description: "Multiplies two integers.", Parameters: operandsSchema},
			exec: Multiply,
		},
	}

	for _, d := range defs {
		if err := reg.Register(d.spec, d.exec); err != nil {
			return err
		}
	}
	return nil
}

// CommandFor returns the command line a shell-backed tool call will run, or "" for other tools.
func CommandFor(toolName string, args map[string]any) string {
	switch toolName {
	case domain.ToolRunTerminalCommand, domain.ToolRunShellCommand:
		command, _ := args["command"].(string)
		return command
	case domain.ToolGetRunningProcesses:
		return ProcessListCommand()
	case domain.ToolGetRAMUsage:
		return RAMUsageCommand()
	default:
		return ""
	}
}

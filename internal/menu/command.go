// Package menu maps task menu commands to store operations.
//
// A Dispatcher takes a Command value and returns a Result describing what
// happened; it never reads input or writes output itself. Session drives a
// Dispatcher from a line-oriented reader and writer, and the terminal UI
// drives the same Dispatcher from key presses.
package menu

import "strings"

// Action identifies a menu command.
type Action int

const (
	ActionInvalid Action = iota
	ActionAdd
	ActionView
	ActionComplete
	ActionRemove
	ActionExit
)

// Choice describes one numbered menu entry.
type Choice struct {
	Key    string
	Name   string
	Action Action
	Label  string
	Prompt string // empty when the action takes no argument
}

// Choices lists the menu entries in display order.
var Choices = []Choice{
	{Key: "1", Name: "add", Action: ActionAdd, Label: "Add a new task", Prompt: "Enter task description: "},
	{Key: "2", Name: "view", Action: ActionView, Label: "View all tasks"},
	{Key: "3", Name: "complete", Action: ActionComplete, Label: "Mark a task as complete", Prompt: "Enter task ID to mark as complete: "},
	{Key: "4", Name: "remove", Action: ActionRemove, Label: "Remove a task", Prompt: "Enter task ID to remove: "},
	{Key: "5", Name: "exit", Action: ActionExit, Label: "Exit"},
}

// ParseChoice maps menu input ("1".."5" or the action name) to an Action.
func ParseChoice(input string) Action {
	input = strings.ToLower(strings.TrimSpace(input))
	for _, c := range Choices {
		if input == c.Key || input == c.Name {
			return c.Action
		}
	}
	return ActionInvalid
}

func (a Action) choice() (Choice, bool) {
	for _, c := range Choices {
		if c.Action == a {
			return c, true
		}
	}
	return Choice{}, false
}

// String returns the action name.
func (a Action) String() string {
	if c, ok := a.choice(); ok {
		return c.Name
	}
	return "invalid"
}

// Prompt returns the argument prompt, or "" if the action takes no argument.
func (a Action) Prompt() string {
	c, _ := a.choice()
	return c.Prompt
}

// NeedsArg reports whether the action prompts for an argument.
func (a Action) NeedsArg() bool {
	return a.Prompt() != ""
}

// Command is one request to the dispatcher.
type Command struct {
	Action Action
	// Arg is the description for add, or the raw id text for complete and remove.
	Arg string
}

// Package console builds the commands the workbench sends to the
// interpreter's console on behalf of the user.
package console

import (
	"context"

	"github.com/mugiliam/hatchworkbench/internal/rsymbol"
)

// Sink runs code in the interpreter's console.
type Sink interface {
	Execute(ctx context.Context, code string) error
}

// ObjectAction is something the user can do to a workspace object.
type ObjectAction string

const (
	ActionView   ObjectAction = "view"
	ActionEdit   ObjectAction = "edit"
	ActionRemove ObjectAction = "remove"
)

var actionFunctions = map[ObjectAction]string{
	ActionView:   "View",
	ActionEdit:   "fix",
	ActionRemove: "remove",
}

func (a ObjectAction) IsValid() bool {
	_, ok := actionFunctions[a]
	return ok
}

// ObjectCommand returns the call that performs action on the named object,
// e.g. View(mydata). ok is false for an unknown action.
func ObjectCommand(action ObjectAction, objectName string) (code string, ok bool) {
	fn, ok := actionFunctions[action]
	if !ok {
		return "", false
	}
	return fn + "(" + rsymbol.ToSymbolName(objectName) + ")", true
}

func ViewObjectCommand(objectName string) string {
	code, _ := ObjectCommand(ActionView, objectName)
	return code
}

func EditObjectCommand(objectName string) string {
	code, _ := ObjectCommand(ActionEdit, objectName)
	return code
}

func RemoveObjectCommand(objectName string) string {
	code, _ := ObjectCommand(ActionRemove, objectName)
	return code
}

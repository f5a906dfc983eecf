package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/janegov/notesapi/internal/client/api"
	"github.com/janegov/notesapi/internal/common"
)

// reportError renders a failure for the user. Validation failures are shown
// per field; everything else as a single line.
func (a *App) reportError(err error) {
	var ve *common.ValidationError
	if errors.As(err, &ve) {
		for _, f := range ve.Fields {
			fmt.Fprintf(a.out, "%s: %s\n", f.Field, f.Message)
		}
		return
	}
	switch {
	case errors.Is(err, common.ErrorUnauthorized):
		fmt.Fprintln(a.out, "Not authorized. Check your credentials or log in again.")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintln(a.out, "Note not found.")
	case errors.Is(err, common.ErrVersionConflict):
		fmt.Fprintln(a.out, "The note changed while you were editing. Fetch it again and retry.")
	default:
		fmt.Fprintln(a.out, err.Error())
	}
}

func (a *App) Register(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}
	confirm, err := GetPassword("Confirm password", a.out)
	if err != nil {
		return err
	}

	if err := a.client.Register(ctx, email, password, confirm); err != nil {
		a.reportError(err)
		return err
	}

	a.userEmail = email
	fmt.Fprintln(a.out, "Registered and logged in.")
	return nil
}

func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword("Enter password", a.out)
	if err != nil {
		return err
	}

	if err := a.client.Login(ctx, email, password); err != nil {
		a.reportError(err)
		return err
	}

	a.userEmail = email
	fmt.Fprintln(a.out, "Logged in.")
	return nil
}

// List prints the user's notes, newest first. Any arguments are joined into
// a title search.
func (a *App) List(ctx context.Context, args []string) error {
	filter := api.ListFilter{Search: strings.Join(args, " ")}

	notes, err := a.client.ListNotes(ctx, filter)
	if err != nil {
		a.reportError(err)
		return err
	}

	if len(notes) == 0 {
		fmt.Fprintln(a.out, "No notes.")
		return nil
	}
	for _, n := range notes {
		fmt.Fprintf(a.out, "%4d  %s  %s\n", n.ID, n.CreatedAt.Format("2006-01-02 15:04"), n.Title)
	}
	return nil
}

func (a *App) Show(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "show <id>")
	if err != nil {
		return err
	}

	note, err := a.client.GetNote(ctx, id)
	if err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintf(a.out, "Id:      %d\n", note.ID)
	fmt.Fprintf(a.out, "Title:   %s\n", note.Title)
	fmt.Fprintf(a.out, "Created: %s\n", note.CreatedAt.Format("2006-01-02 15:04"))
	fmt.Fprintln(a.out, note.Description)
	return nil
}

func (a *App) Add(ctx context.Context) error {
	title, err := GetSimpleText(a.reader, "Enter title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Enter description", a.out)
	if err != nil {
		return err
	}

	note, err := a.client.CreateNote(ctx, title, description)
	if err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintf(a.out, "Created note %d.\n", note.ID)
	return nil
}

func (a *App) Edit(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "edit <id>")
	if err != nil {
		return err
	}

	current, err := a.client.GetNote(ctx, id)
	if err != nil {
		a.reportError(err)
		return err
	}
	fmt.Fprintf(a.out, "Editing note %d (%s)\n", current.ID, current.Title)

	title, err := GetSimpleText(a.reader, "Enter new title", a.out)
	if err != nil {
		return err
	}
	description, err := GetMultiline(a.reader, "Enter new description", a.out)
	if err != nil {
		return err
	}

	if err := a.client.UpdateNote(ctx, id, title, description); err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintln(a.out, "Updated.")
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	id, err := a.idArg(args, "delete <id>")
	if err != nil {
		return err
	}

	if err := a.client.DeleteNote(ctx, id); err != nil {
		a.reportError(err)
		return err
	}

	fmt.Fprintln(a.out, "Deleted.")
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	a.client.Logout()
	a.userEmail = ""
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) idArg(args []string, usage string) (int64, error) {
	if len(args) == 0 {
		fmt.Fprintf(a.out, "Usage: %s\n", usage)
		return 0, errors.New("missing id")
	}
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid id %q\n", args[0])
		return 0, err
	}
	return id, nil
}

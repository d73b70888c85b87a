package cmd

import (
	"errors"
	"fmt"
	"strings"

	"pmadmin/console/internal/apiclient"
	"pmadmin/console/internal/auth"
	"pmadmin/console/internal/models"
)

var (
	errNotLoggedIn  = errors.New("not logged in")
	errAccessDenied = errors.New("access denied")
)

const (
	hintLogin   = "hint: run `pmadmin auth login` to sign in"
	hintRefresh = "hint: the session may have expired; run `pmadmin auth refresh` or `pmadmin auth login`"
)

// describeError turns err into the text shown to the user, with a hint
// where one action would fix it.
func describeError(err error) string {
	var fieldErrs models.FieldErrors
	if errors.As(err, &fieldErrs) {
		return "Error: invalid input: " + fieldErrs.Details()
	}

	msg := "Error: " + err.Error()

	if apiErr, ok := apiclient.AsAPIError(err); ok {
		if len(apiErr.Errors) > 0 {
			msg += "\n  " + strings.Join(apiErr.Errors, "\n  ")
		}
		switch {
		case apiErr.Unauthorized():
			return msg + "\n" + hintRefresh
		case apiErr.Kind == apiclient.KindTransport || apiErr.Kind == apiclient.KindTimeout:
			return msg + "\nhint: check api.baseurl or run with --backend stub"
		}
		return msg
	}

	switch {
	case errors.Is(err, errNotLoggedIn), errors.Is(err, auth.ErrNoRefreshToken):
		return fmt.Sprintf("%s\n%s", msg, hintLogin)
	}
	return msg
}

package main

import (
	"context"

	"github.com/alramz/cxdash/core"
	"github.com/alramz/cxdash/core/user"
)

// addUser updates or creates an active user.User with role
func (cli *commandLine) addUser(uname, email, pwd, role string) error {
	var usr user.User
	var err error
	ctx := context.Background()
	uname = core.CleanString(uname, true /* lower */)
	email = core.CleanString(email, true /* lower */)

	lookup := make([]string, 0, 2)
	for _, s := range []string{uname, email} {
		if s != "" {
			lookup = append(lookup, s)
		}
	}

	if usr, err = cli.usrRepo.GetUser(ctx, user.GetFilter{UsernameOrEmail: lookup}); err != nil {
		if err != user.ErrNotFound {
			return err
		}
		usr = user.User{
			Username: uname,
			Email:    email,
		}
	}
	usr.Role = role
	usr.SetActive(true)
	if err := usr.SetPassword(pwd); err != nil {
		return err
	}
	if _, err := cli.usrRepo.UpdateOrCreateUser(ctx, usr); err != nil {
		return err
	}
	cli.logger.Info("user saved: " + usr.Username + " <" + usr.Email + ">")
	return nil
}

package http

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookshelf/internal/auth"
	"github.com/mrlokans/bookshelf/internal/forms"
	"github.com/mrlokans/bookshelf/internal/services"
)

const (
	myProfilePath       = "/myprofile"
	avatarField         = "profile_img"
	profileUpdatedFlash = "Your account was successfully updated"
)

// ProfileController serves the caller's profile page.
type ProfileController struct {
	profile *services.ProfileService
}

func NewProfileController(profile *services.ProfileService) *ProfileController {
	return &ProfileController{profile: profile}
}

// MyProfile renders the profile form prefilled with the caller's values.
func (pc *ProfileController) MyProfile(c *gin.Context) {
	user, _ := auth.GetIdentity(c).User()
	pc.render(c, forms.ProfileUpdate{Username: user.Username, Email: user.Email}, nil)
}

// UpdateProfile applies the submitted username, email and optional avatar.
func (pc *ProfileController) UpdateProfile(c *gin.Context) {
	var form forms.ProfileUpdate
	if err := c.ShouldBind(&form); err != nil {
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	var upload io.Reader
	file, header, err := c.Request.FormFile(avatarField)
	switch {
	case err == nil:
		defer file.Close()
		if header.Filename != "" {
			form.AvatarFilename = header.Filename
			upload = file
		}
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
	default:
		c.AbortWithStatus(http.StatusBadRequest)
		return
	}

	if _, err := pc.profile.Update(auth.GetIdentity(c), &form, upload); err != nil {
		if ve, ok := forms.AsValidationError(err); ok {
			pc.render(c, form, ve.Messages())
			return
		}
		respondServiceError(c, err, "User", "update profile")
		return
	}

	auth.PutFlash(c, auth.FlashSuccess, profileUpdatedFlash)
	c.Redirect(http.StatusFound, myProfilePath)
}

func (pc *ProfileController) render(c *gin.Context, form forms.ProfileUpdate, errs map[string]string) {
	user, _ := auth.GetIdentity(c).User()
	auth.Render(c, http.StatusOK, "myprofile.html", gin.H{
		"Title":  "My Profile",
		"Form":   form,
		"Errors": errs,
		"Avatar": user.Avatar,
	})
}

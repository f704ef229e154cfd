// common.go
//
// Land tokenization review and transaction workflow service
// Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC
//
// This file is part of landtoken.
// landtoken is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published by the Free Software
// Foundation, either version 3 of the License, or (at your option) any later version.
// landtoken is distributed in the hope that it will be useful, but WITHOUT ANY WARRANTY;
// without even the implied warranty of MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.
// See the GNU Affero General Public License for more details.
// You should have received a copy of the GNU Affero General Public License along with landtoken.
// If not, see <https://www.gnu.org/licenses/>.
// Additional terms under GNU AGPL version 3 section 7:
// a) The reasonable legal notice of original copyright and author attribution must be preserved
//    by including the string: "Copyright (c) 2026 Alex Grant <info@localnerve.com> (https://www.localnerve.com), LocalNerve LLC"
//    in this material, copies, or source code of derived works.

package handlers

import (
	"errors"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/localnerve/landtoken/internal/middleware"
	"github.com/localnerve/landtoken/internal/services"
	"github.com/localnerve/landtoken/internal/types"
	"github.com/localnerve/landtoken/internal/utils"
	"go.uber.org/zap"
)

// ErrorHandler converts handler errors into the standard error body.
// Anything that is not a CustomError or fiber.Error becomes an internal error
// with its message surfaced.
func ErrorHandler(log *zap.Logger) fiber.ErrorHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return utils.ErrorResponse(c, fe.Message, fe.Code, "http")
		}

		ce := types.AsCustomError(err)
		if ce.Code >= fiber.StatusInternalServerError {
			log.Error("Request failed",
				zap.String("method", c.Method()),
				zap.String("url", c.OriginalURL()),
				zap.String("type", ce.Type),
				zap.Error(err))
		}
		return utils.ErrorResponse(c, ce.Message, ce.Code, ce.Type)
	}
}

// callerUID returns the authenticated caller's identity key
func callerUID(c *fiber.Ctx) (string, error) {
	identity := middleware.GetIdentity(c)
	if identity == nil {
		return "", types.NewUnauthenticated("Authorization header is missing")
	}
	return identity.UID, nil
}

// callerRole returns the role resolved by a role gate
func callerRole(c *fiber.Ctx) (*services.Role, error) {
	role := middleware.GetRole(c)
	if role == nil || role.User == nil {
		return nil, types.NewForbidden("Insufficient permissions.")
	}
	return role, nil
}

// parseBody binds a JSON body
func parseBody(c *fiber.Ctx, out interface{}) error {
	if err := c.BodyParser(out); err != nil {
		return types.NewValidation("Invalid request body: " + err.Error())
	}
	return nil
}

// openedFiles tracks multipart files opened for one request
type openedFiles []multipart.File

func (o openedFiles) Close() {
	for _, f := range o {
		_ = f.Close()
	}
}

// openFile opens a multipart file header as a service upload
func (o *openedFiles) openFile(field string, fh *multipart.FileHeader) (services.FileInput, error) {
	f, err := fh.Open()
	if err != nil {
		return services.FileInput{}, err
	}
	*o = append(*o, f)

	contentType := fh.Header.Get(fiber.HeaderContentType)
	if contentType == "" {
		contentType = fiber.MIMEOctetStream
	}
	return services.FileInput{
		Field:       field,
		Filename:    fh.Filename,
		ContentType: contentType,
		Body:        f,
	}, nil
}

// formFiles opens the first file of each named field that is present
func formFiles(form *multipart.Form, fields ...string) ([]services.FileInput, openedFiles, error) {
	var opened openedFiles
	var files []services.FileInput
	for _, field := range fields {
		headers := form.File[field]
		if len(headers) == 0 {
			continue
		}
		in, err := opened.openFile(field, headers[0])
		if err != nil {
			opened.Close()
			return nil, nil, err
		}
		files = append(files, in)
	}
	return files, opened, nil
}

// formValue returns the first trimmed value of a multipart field
func formValue(form *multipart.Form, field string) string {
	if values := form.Value[field]; len(values) > 0 {
		return strings.TrimSpace(values[0])
	}
	return ""
}

package request

import (
	"net/http"
	"realty/shared/constant"
	gDto "realty/shared/dto"
	"realty/shared/failure"
	"realty/shared/validator"
)

// ImageUpload reads the image part of a multipart request. The caller closes the returned file.
func ImageUpload(r *http.Request) (gDto.UploadImageRequest, error) {
	req := gDto.UploadImageRequest{}

	if err := r.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		return req, failure.BadRequest(err) // nolint:wrapcheck
	}

	file, fileHeader, err := r.FormFile(constant.FormFile)
	if err != nil {
		return req, failure.BadRequest(err) // nolint:wrapcheck
	}

	req.Image = fileHeader
	req.ImageFile = file

	if err := validator.ValidateStruct(&req); err != nil {
		file.Close()

		return req, err
	}

	return req, nil
}

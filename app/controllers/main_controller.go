package controllers

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
	fiberlog "github.com/gofiber/fiber/v2/log"
	"github.com/sujit-baniya/flash"

	"github.com/ManuelReschke/PixelShrink/internal/pkg/env"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/imageprocessor"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/session"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/statistics"
	"github.com/ManuelReschke/PixelShrink/internal/pkg/viewmodel"
	"github.com/ManuelReschke/PixelShrink/views/fragments"
)

// HandleStart renders the upload page with the caller's current state
func HandleStart(c *fiber.Ctx) error {
	ctrl, err := session.ControllerFor(c)
	if err != nil {
		fiberlog.Errorf("[Start] %v", err)
		return fiber.ErrInternalServerError
	}

	tr := Translator(c)
	view := ctrl.Snapshot()
	result, err := templ.ToGoHTML(c.UserContext(), fragments.ResultArea(resultFragment(view, tr)))
	if err != nil {
		fiberlog.Errorf("[Start] %v", err)
		return fiber.ErrInternalServerError
	}
	page := viewmodel.Start{
		Layout: viewmodel.Layout{
			Page:  "start",
			T:     tr,
			CSRF:  csrfToken(c),
			Msg:   flash.Get(c),
			IsDev: env.IsDev(),
		},
		View:        view,
		Result:      result,
		Stats:       statistics.GetStatisticsData(),
		MaxUploadMB: env.GetInt("MAX_UPLOAD_MB", 25),
		TargetSize:  c.Query("target_size"),
	}

	if file, ok := ctrl.SelectedFile(); ok {
		if meta, err := imageprocessor.Inspect(file.Data); err == nil {
			page.Image = imageViewModel(meta)
		} else {
			fiberlog.Debugf("[Start] No metadata for %q: %v", file.Name, err)
		}
	}

	return c.Render("index", page, "layouts/main")
}

func imageViewModel(meta *imageprocessor.Metadata) *viewmodel.Image {
	img := &viewmodel.Image{
		Width:      meta.Width,
		Height:     meta.Height,
		Format:     meta.Format,
		HasPreview: true,
	}
	switch {
	case meta.CameraMake != "" && meta.CameraModel != "":
		img.CameraModel = meta.CameraMake + " " + meta.CameraModel
	default:
		img.CameraModel = meta.CameraModel
	}
	if meta.TakenAt != nil {
		img.TakenAt = meta.TakenAt.Format("2006-01-02 15:04")
	}
	return img
}

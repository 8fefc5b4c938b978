package handler

import (
	"intake/internal/application"
	"intake/internal/application/service"
	"intake/internal/wizard/step"
)

type applicationBody struct {
	Application *application.Application `json:"application"`
	Steps       []step.Status            `json:"steps"`
}

func applicationResponse(app *application.Application) applicationBody {
	return applicationBody{Application: app, Steps: app.Steps.Statuses()}
}

type resultBody struct {
	*service.Result
	Steps []step.Status `json:"steps"`
}

func resultResponse(res *service.Result) resultBody {
	var statuses []step.Status
	if res.Application != nil {
		statuses = res.Application.Steps.Statuses()
	}
	return resultBody{Result: res, Steps: statuses}
}

type refusalBody struct {
	Refusal     any                      `json:"refusal"`
	Errors      map[string]string        `json:"errors,omitempty"`
	Notices     []application.Notice     `json:"notices"`
	Application *application.Application `json:"application"`
}

func refusalResponse(res *service.Result) refusalBody {
	body := refusalBody{Errors: res.Errors, Application: res.Application}
	if res.StepRefusal != nil {
		body.Refusal = res.StepRefusal
	} else {
		body.Refusal = res.SectionRefusal
	}
	if res.Application != nil {
		body.Notices = res.Application.Notices
	}
	return body
}

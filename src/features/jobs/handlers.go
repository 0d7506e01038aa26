package jobs

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

// JobResponse is a wrapper for the Job struct to include API links.
type JobResponse struct {
	*Job
	Links map[string]string `json:"_links"`
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func jobLinks(baseURL string, job *Job) map[string]string {
	return map[string]string{
		"self": fmt.Sprintf("%s/api/jobs/%s", baseURL, job.ID),
		"logs": fmt.Sprintf("%s/api/jobs/%s/logs", baseURL, job.ID),
	}
}

func (h *Handler) HandleJobStatus(c *fiber.Ctx) error {
	jobID := c.Params("id")
	job, exists := h.service.GetJob(jobID)
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}

	return c.JSON(&JobResponse{Job: job, Links: jobLinks(c.BaseURL(), job)})
}

func (h *Handler) HandleJobList(c *fiber.Ctx) error {
	jobs := h.service.GetJobs()
	sort.Slice(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})

	baseURL := c.BaseURL()
	responses := make([]*JobResponse, len(jobs))
	for i, job := range jobs {
		responses[i] = &JobResponse{Job: job, Links: jobLinks(baseURL, job)}
	}
	return c.JSON(responses)
}

func (h *Handler) HandleJobLogs(c *fiber.Ctx) error {
	jobID := c.Params("id")
	job, exists := h.service.GetJob(jobID)
	if !exists {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "job not found"})
	}

	if job.LogPath == "" {
		return c.SendString("No logs for this job.")
	}

	logContent, err := os.ReadFile(job.LogPath)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("Failed to read log file.")
	}

	c.Set("Content-Type", "text/plain")
	return c.Send(logContent)
}

func (h *Handler) HandleCancelJob(c *fiber.Ctx) error {
	jobID := c.Params("id")

	if err := h.service.CancelJob(jobID); err != nil {
		if errors.Is(err, ErrJobFinished) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	}

	job, _ := h.service.GetJob(jobID)
	return c.JSON(&JobResponse{Job: job, Links: jobLinks(c.BaseURL(), job)})
}

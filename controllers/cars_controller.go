package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aliautos/backend/dto"
	"github.com/aliautos/backend/models"
	"github.com/aliautos/backend/store"
	"github.com/aliautos/backend/utils"
)

func GetCars(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		cars := st.AllCars(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"items": cars, "total": len(cars)})
	}
}

func GetCar(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		car := st.CarByID(c.Request.Context(), c.Param("id"))
		if car == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
			return
		}
		c.JSON(http.StatusOK, car)
	}
}

// AddCar accepts either a JSON body or a multipart form with a JSON "data"
// field plus an optional "image" file, which is pushed to object storage and
// recorded as the car's imageUrl.
func AddCar(st *store.Store, uploader utils.Uploader, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body dto.CreateCarDTO
		multipart := strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/")
		if multipart {
			jsonData := c.PostForm("data")
			if jsonData == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing data"})
				return
			}
			if err := json.Unmarshal([]byte(jsonData), &body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json"})
				return
			}
		} else if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		car := models.Car{
			ID:               body.ID,
			Make:             body.Make,
			Model:            body.Model,
			Year:             body.Year,
			Price:            body.Price,
			Body:             body.Body,
			Mileage:          body.Mileage,
			Location:         body.Location,
			ShortDescription: body.ShortDescription,
			Description:      body.Description,
			ImageURL:         body.ImageURL,
		}
		if car.ID == "" {
			car.ID = utils.CarID(car.Make, car.Model, car.Year)
		}
		if car.Body == "" {
			car.Body = "Sedan"
		}
		if car.Mileage == "" {
			car.Mileage = "0 km"
		}

		if multipart {
			if fh, err := c.FormFile("image"); err == nil {
				if _, err := v.ValidateFile(fh); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				if uploader == nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "image upload is not configured"})
					return
				}
				url, err := uploader.UploadCarImage(c.Request.Context(), car.ID, fh)
				if err != nil {
					c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
					return
				}
				car.ImageURL = url
			}
		}

		created, err := st.CreateCar(c.Request.Context(), car)
		if err != nil {
			if errors.Is(err, store.ErrCarStorageFull) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			if strings.Contains(err.Error(), "already exists") {
				c.JSON(http.StatusConflict, gin.H{"error": err.Error(), "field": "id"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, created)
	}
}

func UpdateCar(st *store.Store, uploader utils.Uploader, v *utils.FileValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.Param("id")

		var body dto.UpdateCarDTO
		multipart := strings.HasPrefix(c.GetHeader("Content-Type"), "multipart/")
		if multipart {
			dataStr := c.PostForm("data")
			if dataStr == "" {
				c.JSON(http.StatusBadRequest, gin.H{"error": "missing data"})
				return
			}
			if err := json.Unmarshal([]byte(dataStr), &body); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid data json", "details": err.Error()})
				return
			}
		} else if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if multipart {
			if fh, err := c.FormFile("image"); err == nil {
				if _, err := v.ValidateFile(fh); err != nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
					return
				}
				if uploader == nil {
					c.JSON(http.StatusBadRequest, gin.H{"error": "image upload is not configured"})
					return
				}
				url, err := uploader.UploadCarImage(c.Request.Context(), id, fh)
				if err != nil {
					c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
					return
				}
				body.ImageURL = &url
			}
		}

		updated, err := st.UpdateCar(c.Request.Context(), id, store.CarUpdate{
			Make:             body.Make,
			Model:            body.Model,
			Year:             body.Year,
			Price:            body.Price,
			Body:             body.Body,
			Mileage:          body.Mileage,
			Location:         body.Location,
			ShortDescription: body.ShortDescription,
			Description:      body.Description,
			ImageURL:         body.ImageURL,
		})
		if err != nil {
			if errors.Is(err, store.ErrCarStorageFull) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if updated == nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "car not found"})
			return
		}

		c.JSON(http.StatusOK, updated)
	}
}

func DeleteCar(st *store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := st.DeleteCar(c.Request.Context(), c.Param("id")); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"ok": true})
	}
}

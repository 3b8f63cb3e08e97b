/*
 *  Copyright (c) 2025, WSO2 LLC. (http://www.wso2.org) All Rights Reserved.
 *
 *  Licensed under the Apache License, Version 2.0 (the "License");
 *  you may not use this file except in compliance with the License.
 *  You may obtain a copy of the License at
 *
 *  http://www.apache.org/licenses/LICENSE-2.0
 *
 *  Unless required by applicable law or agreed to in writing, software
 *  distributed under the License is distributed on an "AS IS" BASIS,
 *  WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 *  See the License for the specific language governing permissions and
 *  limitations under the License.
 *
 */

package client

import (
	"context"

	"accredited-programmes-ui/internal/model"
)

// CourseClient reads courses and offerings from the accredited programmes API
type CourseClient struct {
	rest *RestClient
}

// NewCourseClient creates a CourseClient over rest
func NewCourseClient(rest *RestClient) *CourseClient {
	return &CourseClient{rest: rest}
}

// All returns every course
func (c *CourseClient) All(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := c.rest.Get(ctx, Request{Path: "/courses"}, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// Find returns the course with id
func (c *CourseClient) Find(ctx context.Context, id string) (*model.Course, error) {
	var course model.Course
	if err := c.rest.Get(ctx, Request{Path: pathf("/courses/%s", id)}, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

// FindOfferings returns the offerings of a course
func (c *CourseClient) FindOfferings(ctx context.Context, courseID string) ([]model.CourseOffering, error) {
	var offerings []model.CourseOffering
	if err := c.rest.Get(ctx, Request{Path: pathf("/courses/%s/offerings", courseID)}, &offerings); err != nil {
		return nil, err
	}
	return offerings, nil
}

// FindCourseNames returns the distinct names of all courses
func (c *CourseClient) FindCourseNames(ctx context.Context) ([]string, error) {
	var names []string
	if err := c.rest.Get(ctx, Request{Path: "/courses/course-names"}, &names); err != nil {
		return nil, err
	}
	return names, nil
}

// FindOffering returns the offering with id
func (c *CourseClient) FindOffering(ctx context.Context, offeringID string) (*model.CourseOffering, error) {
	var offering model.CourseOffering
	if err := c.rest.Get(ctx, Request{Path: pathf("/offerings/%s", offeringID)}, &offering); err != nil {
		return nil, err
	}
	return &offering, nil
}

// FindCourseByOffering returns the course an offering belongs to
func (c *CourseClient) FindCourseByOffering(ctx context.Context, offeringID string) (*model.Course, error) {
	var course model.Course
	if err := c.rest.Get(ctx, Request{Path: pathf("/offerings/%s/course", offeringID)}, &course); err != nil {
		return nil, err
	}
	return &course, nil
}

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

package constants

import "errors"

// Domain errors
var (
	ErrNotFound              = errors.New("resource not found")
	ErrReferralNotFound      = errors.New("referral not found")
	ErrPersonNotFound        = errors.New("person not found")
	ErrOrganisationNotFound  = errors.New("organisation not found")
	ErrCourseNotFound        = errors.New("course not found")
	ErrOfferingNotFound      = errors.New("course offering not found")
	ErrParticipationNotFound = errors.New("course participation not found")
	ErrReferralNotStarted    = errors.New("referral is not in a started state")
	ErrReferralStarted       = errors.New("referral is still in a started state")
	ErrReferralNotReady      = errors.New("referral is not ready for submission")
	ErrNotReferralOwner      = errors.New("user is not the referrer of this referral")
	ErrUnauthenticated       = errors.New("user is not signed in")
	ErrForbidden             = errors.New("user does not have access")
	ErrInvalidToken          = errors.New("invalid user token")
)

// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package client provides a cached Kubernetes client and the ConfigMap
// lookups the relay needs.
//
// The client is initialized once on first use and reused afterwards:
//
//	clientset, config, err := client.GetKubeClient()
//	if err != nil {
//	    return fmt.Errorf("failed to get kubernetes client: %w", err)
//	}
//
// Configuration is discovered in this order:
//   - explicit kubeconfig path passed to BuildKubeClient
//   - KUBECONFIG environment variable
//   - ~/.kube/config when it exists
//   - in-cluster service account
//
// For tests, pass a k8s.io/client-go/kubernetes/fake clientset wherever an
// Interface is accepted.
package client
